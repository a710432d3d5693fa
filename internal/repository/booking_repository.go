package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campushall/hallbook-api/internal/models"
)

const bookingColumns = "id, event_name, event_manager, organizing_club, booked_hall_id, booked_hall_name, event_date_type, event_date, event_start_date, event_end_date, start_time, end_time, institution, department, is_approved, rejection_reason, requested_by, created_at, updated_at"

// BookingRepository handles persistence for booking records.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository instantiates a booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// List returns bookings matching the filter in ascending creation order, the
// default listing order. Further search and sorting happen in the listing
// engine.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	base := "FROM bookings WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("is_approved = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Institution != "" {
		conditions = append(conditions, fmt.Sprintf("institution = $%d", len(args)+1))
		args = append(args, filter.Institution)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.HallID != "" {
		conditions = append(conditions, fmt.Sprintf("booked_hall_id = $%d", len(args)+1))
		args = append(args, filter.HallID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at ASC", bookingColumns, base)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// FindByID loads a booking by identifier.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE id = $1", bookingColumns)
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create inserts a new booking record.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	const query = `INSERT INTO bookings (id, event_name, event_manager, organizing_club, booked_hall_id, booked_hall_name, event_date_type, event_date, event_start_date, event_end_date, start_time, end_time, institution, department, is_approved, rejection_reason, requested_by, created_at, updated_at) VALUES (:id, :event_name, :event_manager, :organizing_club, :booked_hall_id, :booked_hall_name, :event_date_type, :event_date, :event_start_date, :event_end_date, :start_time, :end_time, :institution, :department, :is_approved, :rejection_reason, :requested_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// ApplyTransition updates status and rejection reason as one conditional row
// update: the write only lands while the booking is still in one of the legal
// source states, so concurrent approvers cannot interleave partial writes.
// Returns the number of rows affected; 0 means the booking was missing or no
// longer in a source state.
func (r *BookingRepository) ApplyTransition(ctx context.Context, id string, target models.BookingStatus, reason *string, sources []models.BookingStatus) (int64, error) {
	from := make([]string, len(sources))
	for i, s := range sources {
		from[i] = string(s)
	}

	const query = `UPDATE bookings SET is_approved = $1, rejection_reason = $2, updated_at = $3 WHERE id = $4 AND is_approved = ANY($5)`
	res, err := r.db.ExecContext(ctx, query, target, reason, time.Now().UTC(), id, pq.Array(from))
	if err != nil {
		return 0, fmt.Errorf("apply booking transition: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("apply booking transition rows: %w", err)
	}
	return affected, nil
}

// CountActiveByHall returns the number of non-terminal bookings referencing
// the hall. Hall deletion is refused while this is non-zero.
func (r *BookingRepository) CountActiveByHall(ctx context.Context, hallID string) (int, error) {
	const query = `SELECT COUNT(*) FROM bookings WHERE booked_hall_id = $1 AND is_approved IN ($2, $3)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, hallID, models.StatusRequestSent, models.StatusApprovedByHOD); err != nil {
		return 0, fmt.Errorf("count active hall bookings: %w", err)
	}
	return count, nil
}
