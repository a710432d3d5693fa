package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushall/hallbook-api/internal/listing"
	"github.com/campushall/hallbook-api/internal/models"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
)

type hallStore interface {
	List(ctx context.Context, filter models.HallFilter) ([]models.Hall, error)
	FindByID(ctx context.Context, id string) (*models.Hall, error)
	ExistsByName(ctx context.Context, institution, name, excludeID string) (bool, error)
	Create(ctx context.Context, hall *models.Hall) error
	Update(ctx context.Context, hall *models.Hall) error
	Delete(ctx context.Context, id string) (int64, error)
}

type hallUsageCounter interface {
	CountActiveByHall(ctx context.Context, hallID string) (int, error)
}

// CreateHallRequest describes payload for registering a hall.
type CreateHallRequest struct {
	Name        string   `json:"name" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Capacity    int      `json:"capacity" validate:"required,gt=0"`
	Amenities   []string `json:"amenities"`
	Institution string   `json:"institution" validate:"required"`
}

// UpdateHallRequest updates mutable fields on a hall.
type UpdateHallRequest struct {
	Name      string   `json:"name" validate:"required"`
	Location  string   `json:"location" validate:"required"`
	Capacity  int      `json:"capacity" validate:"required,gt=0"`
	Amenities []string `json:"amenities"`
}

// HallService orchestrates the hall registry.
type HallService struct {
	repo        hallStore
	bookings    hallUsageCounter
	validator   *validator.Validate
	logger      *zap.Logger
	masterEmail string
}

// NewHallService creates a new hall service instance. masterEmail identifies
// the master admin allowed to manage any hall regardless of creator.
func NewHallService(repo hallStore, bookings hallUsageCounter, validate *validator.Validate, logger *zap.Logger, masterEmail string) *HallService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HallService{repo: repo, bookings: bookings, validator: validate, logger: logger, masterEmail: masterEmail}
}

// List returns halls filtered by the query, sorted for the admin table by
// the embedded hall number.
func (s *HallService) List(ctx context.Context, filter models.HallFilter) ([]models.Hall, error) {
	halls, err := s.repo.List(ctx, models.HallFilter{Institution: filter.Institution})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list halls")
	}
	halls = listing.SearchHalls(halls, filter.Search)
	return listing.SortHallsByName(halls, false), nil
}

// Get loads a single hall.
func (s *HallService) Get(ctx context.Context, id string) (*models.Hall, error) {
	hall, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hall not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load hall")
	}
	return hall, nil
}

// Create registers a hall, enforcing the name-unique-per-institution
// invariant. The creator identity comes from the authenticated caller.
func (s *HallService) Create(ctx context.Context, req CreateHallRequest, creatorEmail string) (*models.Hall, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hall payload")
	}

	exists, err := s.repo.ExistsByName(ctx, req.Institution, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check hall name")
	}
	if exists {
		return nil, appErrors.ErrDuplicateName
	}

	hall := &models.Hall{
		Name:         strings.TrimSpace(req.Name),
		Location:     req.Location,
		Capacity:     req.Capacity,
		Amenities:    req.Amenities,
		Institution:  req.Institution,
		CreatorEmail: creatorEmail,
	}
	if err := s.repo.Create(ctx, hall); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create hall")
	}

	s.logger.Info("hall_created", zap.String("hall_id", hall.ID), zap.String("name", hall.Name))
	return hall, nil
}

// Update modifies a hall; only its creator or the master admin may edit.
func (s *HallService) Update(ctx context.Context, id string, req UpdateHallRequest, requesterEmail string) (*models.Hall, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hall payload")
	}

	hall, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.mayManage(hall, requesterEmail) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the hall creator or master admin may edit this hall")
	}

	if !strings.EqualFold(hall.Name, req.Name) {
		exists, err := s.repo.ExistsByName(ctx, hall.Institution, req.Name, hall.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check hall name")
		}
		if exists {
			return nil, appErrors.ErrDuplicateName
		}
	}

	hall.Name = strings.TrimSpace(req.Name)
	hall.Location = req.Location
	hall.Capacity = req.Capacity
	hall.Amenities = req.Amenities
	if err := s.repo.Update(ctx, hall); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update hall")
	}
	return hall, nil
}

// Delete removes a hall. Deletion is refused while non-terminal bookings
// still reference the hall, so no active booking is left dangling.
func (s *HallService) Delete(ctx context.Context, id, requesterEmail string) error {
	hall, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.mayManage(hall, requesterEmail) {
		return appErrors.Clone(appErrors.ErrForbidden, "only the hall creator or master admin may delete this hall")
	}

	active, err := s.bookings.CountActiveByHall(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count hall bookings")
	}
	if active > 0 {
		return appErrors.ErrHallInUse
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete hall")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "hall not found")
	}

	s.logger.Info("hall_deleted", zap.String("hall_id", id), zap.String("by", requesterEmail))
	return nil
}

func (s *HallService) mayManage(hall *models.Hall, requesterEmail string) bool {
	if requesterEmail == "" {
		return false
	}
	if strings.EqualFold(hall.CreatorEmail, requesterEmail) {
		return true
	}
	return s.masterEmail != "" && strings.EqualFold(s.masterEmail, requesterEmail)
}
