package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushall/hallbook-api/internal/models"
)

const hallColumns = "id, name, location, capacity, amenities, institution, creator_email, created_at, updated_at"

// HallRepository handles persistence for the hall registry.
type HallRepository struct {
	db *sqlx.DB
}

// NewHallRepository instantiates a hall repository.
func NewHallRepository(db *sqlx.DB) *HallRepository {
	return &HallRepository{db: db}
}

// List returns halls matching the filter, unordered; the listing engine
// sorts for display.
func (r *HallRepository) List(ctx context.Context, filter models.HallFilter) ([]models.Hall, error) {
	base := "FROM halls WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Institution != "" {
		conditions = append(conditions, fmt.Sprintf("institution = $%d", len(args)+1))
		args = append(args, filter.Institution)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(location) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s", hallColumns, base)
	var halls []models.Hall
	if err := r.db.SelectContext(ctx, &halls, query, args...); err != nil {
		return nil, fmt.Errorf("list halls: %w", err)
	}
	return halls, nil
}

// FindByID loads a hall by identifier.
func (r *HallRepository) FindByID(ctx context.Context, id string) (*models.Hall, error) {
	query := fmt.Sprintf("SELECT %s FROM halls WHERE id = $1", hallColumns)
	var hall models.Hall
	if err := r.db.GetContext(ctx, &hall, query, id); err != nil {
		return nil, err
	}
	return &hall, nil
}

// FindByName resolves a hall by exact name within an institution scope. The
// bulk importer uses this to resolve spreadsheet hall references.
func (r *HallRepository) FindByName(ctx context.Context, institution, name string) (*models.Hall, error) {
	query := fmt.Sprintf("SELECT %s FROM halls WHERE LOWER(name) = LOWER($1)", hallColumns)
	args := []interface{}{name}
	if institution != "" {
		query += " AND institution = $2"
		args = append(args, institution)
	}
	var hall models.Hall
	if err := r.db.GetContext(ctx, &hall, query+" LIMIT 1", args...); err != nil {
		return nil, err
	}
	return &hall, nil
}

// ExistsByName checks the name-unique-per-institution invariant.
func (r *HallRepository) ExistsByName(ctx context.Context, institution, name, excludeID string) (bool, error) {
	base := "SELECT 1 FROM halls WHERE LOWER(name) = LOWER($1) AND institution = $2"
	args := []interface{}{name, institution}
	if excludeID != "" {
		base += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check hall name: %w", err)
	}
	return true, nil
}

// Create inserts a new hall record.
func (r *HallRepository) Create(ctx context.Context, hall *models.Hall) error {
	if hall.ID == "" {
		hall.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if hall.CreatedAt.IsZero() {
		hall.CreatedAt = now
	}
	hall.UpdatedAt = now

	const query = `INSERT INTO halls (id, name, location, capacity, amenities, institution, creator_email, created_at, updated_at) VALUES (:id, :name, :location, :capacity, :amenities, :institution, :creator_email, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, hall); err != nil {
		return fmt.Errorf("create hall: %w", err)
	}
	return nil
}

// Update modifies an existing hall.
func (r *HallRepository) Update(ctx context.Context, hall *models.Hall) error {
	hall.UpdatedAt = time.Now().UTC()
	const query = `UPDATE halls SET name = :name, location = :location, capacity = :capacity, amenities = :amenities, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, hall); err != nil {
		return fmt.Errorf("update hall: %w", err)
	}
	return nil
}

// Delete removes a hall permanently. Deletion is irreversible; the service
// layer refuses it while active bookings reference the hall.
func (r *HallRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM halls WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete hall: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete hall rows: %w", err)
	}
	return affected, nil
}
