package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushall/hallbook-api/internal/models"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
)

type mockBookingRepo struct {
	bookings map[string]*models.Booking
	order    []string
	createN  int
}

func (m *mockBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range m.order {
		b := m.bookings[id]
		if filter.Status != "" && b.IsApproved != filter.Status {
			continue
		}
		if filter.HallID != "" && b.BookedHallID != filter.HallID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		copy := *b
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if m.bookings == nil {
		m.bookings = make(map[string]*models.Booking)
	}
	m.createN++
	if booking.ID == "" {
		booking.ID = fmt.Sprintf("b%d", m.createN)
	}
	booking.CreatedAt = time.Now().UTC()
	copy := *booking
	m.bookings[booking.ID] = &copy
	m.order = append(m.order, booking.ID)
	return nil
}

// ApplyTransition mirrors the conditional single-row update the real store
// performs: the write lands only while the current status is a legal source.
func (m *mockBookingRepo) ApplyTransition(ctx context.Context, id string, target models.BookingStatus, reason *string, sources []models.BookingStatus) (int64, error) {
	b, ok := m.bookings[id]
	if !ok {
		return 0, nil
	}
	legal := false
	for _, s := range sources {
		if b.IsApproved == s {
			legal = true
			break
		}
	}
	if !legal {
		return 0, nil
	}
	b.IsApproved = target
	b.RejectionReason = reason
	b.UpdatedAt = time.Now().UTC()
	return 1, nil
}

type mockBookingHalls struct {
	halls map[string]*models.Hall
}

func (m *mockBookingHalls) FindByID(ctx context.Context, id string) (*models.Hall, error) {
	if h, ok := m.halls[id]; ok {
		copy := *h
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func newBookingService(repo *mockBookingRepo, halls *mockBookingHalls) *BookingService {
	if halls == nil {
		halls = &mockBookingHalls{halls: map[string]*models.Hall{
			"h1": {ID: "h1", Name: "Room 101", Institution: "iiit"},
		}}
	}
	return NewBookingService(repo, halls, nil, validator.New(), zap.NewNop(), nil, time.Minute)
}

func fullDayRequest() CreateBookingRequest {
	return CreateBookingRequest{
		EventName:     "Tech Fest",
		EventManager:  "Asha Rao",
		HallID:        "h1",
		EventDateType: models.DateTypeFull,
		EventDate:     "15-09-2026",
		Institution:   "iiit",
		Department:    "CSE",
	}
}

func TestBookingServiceCreateFullDay(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newBookingService(repo, nil)

	booking, err := svc.Create(context.Background(), fullDayRequest(), "asha@iiit.ac.in")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRequestSent, booking.IsApproved)
	assert.Equal(t, "Room 101", booking.BookedHallName)
	require.NotNil(t, booking.EventDate)
	assert.Equal(t, "15-09-2026", booking.EventDate.Format("02-01-2006"))
	assert.Nil(t, booking.EventStartDate)
	assert.Empty(t, booking.StartTime)
}

func TestBookingServiceCreateHalfDayRequiresTimes(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, nil)

	req := fullDayRequest()
	req.EventDateType = models.DateTypeHalf
	_, err := svc.Create(context.Background(), req, "asha@iiit.ac.in")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCreateRejectsBadDate(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, nil)

	req := fullDayRequest()
	req.EventDate = "2026-09-15"
	_, err := svc.Create(context.Background(), req, "asha@iiit.ac.in")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCreateUnknownHall(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, nil)

	req := fullDayRequest()
	req.HallID = "missing"
	_, err := svc.Create(context.Background(), req, "asha@iiit.ac.in")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCreateMultipleDayOrder(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, nil)

	req := fullDayRequest()
	req.EventDateType = models.DateTypeMultiple
	req.EventDate = ""
	req.EventStartDate = "20-09-2026"
	req.EventEndDate = "18-09-2026"
	_, err := svc.Create(context.Background(), req, "asha@iiit.ac.in")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func seedBooking(repo *mockBookingRepo, id string, status models.BookingStatus) {
	if repo.bookings == nil {
		repo.bookings = make(map[string]*models.Booking)
	}
	repo.bookings[id] = &models.Booking{ID: id, EventName: "Tech Fest", IsApproved: status}
	repo.order = append(repo.order, id)
}

func TestBookingServiceTransitionHODApprove(t *testing.T) {
	repo := &mockBookingRepo{}
	seedBooking(repo, "b1", models.StatusRequestSent)
	svc := newBookingService(repo, nil)

	booking, err := svc.Transition(context.Background(), "b1", TransitionRequest{Status: models.StatusApprovedByHOD}, models.RoleHOD)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApprovedByHOD, booking.IsApproved)
	assert.Equal(t, models.StatusApprovedByHOD, repo.bookings["b1"].IsApproved)
}

func TestBookingServiceTransitionRejectWithoutReason(t *testing.T) {
	repo := &mockBookingRepo{}
	seedBooking(repo, "b1", models.StatusRequestSent)
	svc := newBookingService(repo, nil)

	_, err := svc.Transition(context.Background(), "b1", TransitionRequest{Status: models.StatusRejectedByAdmin, Reason: "   "}, models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingReason.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.StatusRequestSent, repo.bookings["b1"].IsApproved)
}

func TestBookingServiceTransitionTerminal(t *testing.T) {
	repo := &mockBookingRepo{}
	seedBooking(repo, "b1", models.StatusRejectedByHOD)
	svc := newBookingService(repo, nil)

	_, err := svc.Transition(context.Background(), "b1", TransitionRequest{Status: models.StatusApprovedByAdmin}, models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.StatusRejectedByHOD, repo.bookings["b1"].IsApproved)
}

func TestBookingServiceTransitionWrongActor(t *testing.T) {
	repo := &mockBookingRepo{}
	seedBooking(repo, "b1", models.StatusRequestSent)
	svc := newBookingService(repo, nil)

	_, err := svc.Transition(context.Background(), "b1", TransitionRequest{Status: models.StatusApprovedByHOD}, models.RoleFaculty)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceTransitionNotFound(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, nil)

	_, err := svc.Transition(context.Background(), "missing", TransitionRequest{Status: models.StatusApprovedByHOD}, models.RoleHOD)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

// staleReadRepo serves reads from a stale snapshot while the underlying
// store has already moved on, the shape of a lost race between approvers.
type staleReadRepo struct {
	*mockBookingRepo
	staleStatus models.BookingStatus
}

func (r *staleReadRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	b, err := r.mockBookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.IsApproved = r.staleStatus
	return b, nil
}

func TestBookingServiceTransitionLostRace(t *testing.T) {
	inner := &mockBookingRepo{}
	seedBooking(inner, "b1", models.StatusRejectedByHOD)
	repo := &staleReadRepo{mockBookingRepo: inner, staleStatus: models.StatusRequestSent}
	svc := NewBookingService(repo, &mockBookingHalls{}, nil, validator.New(), zap.NewNop(), nil, time.Minute)

	_, err := svc.Transition(context.Background(), "b1", TransitionRequest{Status: models.StatusApprovedByHOD}, models.RoleHOD)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.StatusRejectedByHOD, inner.bookings["b1"].IsApproved)
}

func TestBookingServiceEventsOnlyFullyApproved(t *testing.T) {
	repo := &mockBookingRepo{}
	seedBooking(repo, "b1", models.StatusRequestSent)
	seedBooking(repo, "b2", models.StatusApprovedByAdmin)
	seedBooking(repo, "b3", models.StatusRejectedByAdmin)
	svc := newBookingService(repo, nil)

	events, err := svc.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "b2", events[0].ID)
}
