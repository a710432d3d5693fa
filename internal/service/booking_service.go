package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campushall/hallbook-api/internal/listing"
	"github.com/campushall/hallbook-api/internal/models"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
)

const eventsCacheKey = "hallbook:events"

type bookingStore interface {
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	ApplyTransition(ctx context.Context, id string, target models.BookingStatus, reason *string, sources []models.BookingStatus) (int64, error)
}

type bookingHallResolver interface {
	FindByID(ctx context.Context, id string) (*models.Hall, error)
}

// CreateBookingRequest carries a booking submission. Dates use dd-mm-yyyy,
// times 24h "15:04"; which fields are required depends on eventDateType.
type CreateBookingRequest struct {
	EventName      string          `json:"eventName" validate:"required"`
	EventManager   string          `json:"eventManager" validate:"required"`
	OrganizingClub string          `json:"organizingClub"`
	HallID         string          `json:"hallId" validate:"required"`
	EventDateType  models.DateType `json:"eventDateType" validate:"required"`
	EventDate      string          `json:"eventDate"`
	StartTime      string          `json:"startTime"`
	EndTime        string          `json:"endTime"`
	EventStartDate string          `json:"eventStartDate"`
	EventEndDate   string          `json:"eventEndDate"`
	Institution    string          `json:"institution" validate:"required"`
	Department     string          `json:"department" validate:"required"`
}

// TransitionRequest moves a booking to a target status.
type TransitionRequest struct {
	Status models.BookingStatus `json:"isApproved" validate:"required"`
	Reason string               `json:"rejectionReason"`
}

// ListBookingsQuery is the search/sort state of a booking table.
type ListBookingsQuery struct {
	Filter models.BookingFilter
	Search string
	Sort   listing.Directive
}

// BookingService orchestrates booking submission, the approval workflow and
// the listing views built on top of the stored records.
type BookingService struct {
	repo      bookingStore
	halls     bookingHallResolver
	cache     *redis.Client
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	eventsTTL time.Duration
}

// NewBookingService creates a booking service. cache may be nil, in which
// case the public events view is computed on every request; metrics may be
// nil as well.
func NewBookingService(repo bookingStore, halls bookingHallResolver, cache *redis.Client, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, eventsTTL time.Duration) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if eventsTTL <= 0 {
		eventsTTL = 5 * time.Minute
	}
	return &BookingService{repo: repo, halls: halls, cache: cache, validator: validate, logger: logger, metrics: metrics, eventsTTL: eventsTTL}
}

// Create submits a new booking request in the REQUEST_SENT state. The hall
// name is denormalised onto the record at submission time so listings never
// need a join.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest, requestedBy string) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	spec, err := parseDateSpec(req)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	hall, err := s.halls.FindByID(ctx, req.HallID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hall not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve hall")
	}

	booking := &models.Booking{
		EventName:      req.EventName,
		EventManager:   req.EventManager,
		OrganizingClub: req.OrganizingClub,
		BookedHallID:   hall.ID,
		BookedHallName: hall.Name,
		Institution:    req.Institution,
		Department:     req.Department,
		IsApproved:     models.StatusRequestSent,
		RequestedBy:    requestedBy,
	}
	booking.ApplyDateSpec(spec)

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	s.invalidateEvents(ctx)
	s.logger.Info("booking_created",
		zap.String("booking_id", booking.ID),
		zap.String("hall", booking.BookedHallName),
		zap.String("requested_by", requestedBy))
	return booking, nil
}

// parseDateSpec converts the wire representation of a schedule into a
// validated DateSpec. Parse failures surface as validation errors before any
// write happens.
func parseDateSpec(req CreateBookingRequest) (models.DateSpec, error) {
	spec := models.DateSpec{Type: req.EventDateType}
	if !spec.Type.Valid() {
		return spec, appErrors.Clone(appErrors.ErrValidation, "unknown event date type")
	}

	parse := func(raw, field string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		t, err := listing.ParseDate(raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, field+" must be dd-mm-yyyy")
		}
		return &t, nil
	}

	var err error
	if spec.Date, err = parse(req.EventDate, "eventDate"); err != nil {
		return spec, err
	}
	if spec.StartDate, err = parse(req.EventStartDate, "eventStartDate"); err != nil {
		return spec, err
	}
	if spec.EndDate, err = parse(req.EventEndDate, "eventEndDate"); err != nil {
		return spec, err
	}

	if req.StartTime != "" {
		if spec.StartTime, err = listing.ParseClock(req.StartTime); err != nil {
			return spec, appErrors.Clone(appErrors.ErrValidation, "startTime must be HH:MM")
		}
	}
	if req.EndTime != "" {
		if spec.EndTime, err = listing.ParseClock(req.EndTime); err != nil {
			return spec, appErrors.Clone(appErrors.ErrValidation, "endTime must be HH:MM")
		}
	}
	return spec, nil
}

// Get loads a single booking.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	return booking, nil
}

// List returns bookings for a table view: filtered in the store, then
// searched and sorted by the listing engine.
func (s *BookingService) List(ctx context.Context, q ListBookingsQuery) ([]models.Booking, error) {
	bookings, err := s.repo.List(ctx, q.Filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	bookings = listing.SearchBookings(bookings, q.Search)
	return listing.SortBookings(bookings, q.Sort), nil
}

// Transition applies one approval-workflow step on behalf of actor. The
// store write is conditional on the booking still being in a legal source
// state, so two approvers racing each other cannot both land.
func (s *BookingService) Transition(ctx context.Context, id string, req TransitionRequest, actor models.UserRole) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transition payload")
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	reason, err := models.Transition(booking.IsApproved, req.Status, actor, req.Reason)
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.ApplyTransition(ctx, id, req.Status, reason, models.TransitionSources(req.Status))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply transition")
	}
	if affected == 0 {
		// Lost the race: re-read to tell a vanished booking apart from one a
		// concurrent approver already moved.
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, appErrors.ErrInvalidTransition
	}

	booking.IsApproved = req.Status
	booking.RejectionReason = reason
	booking.UpdatedAt = time.Now().UTC()

	s.invalidateEvents(ctx)
	s.logger.Info("booking_transition",
		zap.String("booking_id", id),
		zap.String("status", string(req.Status)),
		zap.String("actor", string(actor)))
	return booking, nil
}

// Events returns the public view of fully approved bookings ordered by event
// date, served from cache when fresh.
func (s *BookingService) Events(ctx context.Context) ([]models.Booking, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, eventsCacheKey).Bytes()
		if err == nil {
			var cached []models.Booking
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				s.metrics.RecordCacheLookup(true)
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("events_cache_read_failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	events, err := s.List(ctx, ListBookingsQuery{
		Filter: models.BookingFilter{Status: models.StatusApprovedByAdmin},
		Sort:   listing.Directive{Key: listing.SortEventDate},
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, jsonErr := json.Marshal(events); jsonErr == nil {
			if err := s.cache.Set(ctx, eventsCacheKey, raw, s.eventsTTL).Err(); err != nil {
				s.logger.Warn("events_cache_write_failed", zap.Error(err))
			}
		}
	}
	return events, nil
}

func (s *BookingService) invalidateEvents(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, eventsCacheKey).Err(); err != nil {
		s.logger.Warn("events_cache_invalidate_failed", zap.Error(err))
	}
}
