package models

import (
	"fmt"
	"strings"
	"time"

	appErrors "github.com/campushall/hallbook-api/pkg/errors"
)

// BookingStatus enumerates the approval lifecycle of a booking.
type BookingStatus string

const (
	StatusRequestSent     BookingStatus = "REQUEST_SENT"
	StatusApprovedByHOD   BookingStatus = "APPROVED_BY_HOD"
	StatusApprovedByAdmin BookingStatus = "APPROVED_BY_ADMIN"
	StatusRejectedByHOD   BookingStatus = "REJECTED_BY_HOD"
	StatusRejectedByAdmin BookingStatus = "REJECTED_BY_ADMIN"
)

// Valid reports whether the status is a known lifecycle state.
func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok || s == StatusRequestSent
}

// Terminal reports whether no further transition is permitted from s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusApprovedByAdmin, StatusRejectedByHOD, StatusRejectedByAdmin:
		return true
	}
	return false
}

// transitionEdge describes one legal edge of the approval state machine.
type transitionEdge struct {
	actor          UserRole
	from           []BookingStatus
	requiresReason bool
}

// transitions is the single source of truth for the approval workflow,
// keyed by target status. Approving as admin clears any prior rejection
// reason; rejecting overwrites it.
var transitions = map[BookingStatus]transitionEdge{
	StatusApprovedByHOD: {
		actor: RoleHOD,
		from:  []BookingStatus{StatusRequestSent},
	},
	StatusRejectedByHOD: {
		actor:          RoleHOD,
		from:           []BookingStatus{StatusRequestSent},
		requiresReason: true,
	},
	StatusApprovedByAdmin: {
		actor: RoleAdmin,
		from:  []BookingStatus{StatusRequestSent, StatusApprovedByHOD},
	},
	StatusRejectedByAdmin: {
		actor:          RoleAdmin,
		from:           []BookingStatus{StatusRequestSent, StatusApprovedByHOD},
		requiresReason: true,
	},
}

// TransitionSources returns the statuses a booking may be in for target to be
// reached. Repositories use this to apply the transition as one conditional
// update.
func TransitionSources(target BookingStatus) []BookingStatus {
	edge, ok := transitions[target]
	if !ok {
		return nil
	}
	sources := make([]BookingStatus, len(edge.from))
	copy(sources, edge.from)
	return sources
}

// Transition validates moving a booking from current to target on behalf of
// actor and returns the rejection reason to persist (nil for approvals).
// The booking itself is only mutated by the caller after the conditional
// update succeeds, so a failed transition leaves prior state intact.
func Transition(current, target BookingStatus, actor UserRole, reason string) (*string, error) {
	edge, ok := transitions[target]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown booking status %q", target))
	}
	if current.Terminal() {
		return nil, appErrors.ErrInvalidTransition
	}
	if actor != edge.actor {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("only %s may set status %s", edge.actor, target))
	}
	if !statusIn(current, edge.from) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move booking from %s to %s", current, target))
	}
	if edge.requiresReason {
		trimmed := strings.TrimSpace(reason)
		if trimmed == "" {
			return nil, appErrors.ErrMissingReason
		}
		return &trimmed, nil
	}
	return nil, nil
}

func statusIn(s BookingStatus, set []BookingStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

// DateType describes how a booking occupies its hall.
type DateType string

const (
	DateTypeFull     DateType = "full"
	DateTypeHalf     DateType = "half"
	DateTypeMultiple DateType = "multiple"
)

// Valid reports whether the date type is recognised.
func (t DateType) Valid() bool {
	switch t {
	case DateTypeFull, DateTypeHalf, DateTypeMultiple:
		return true
	}
	return false
}

// DateSpec is the tagged representation of a booking's schedule. Exactly one
// date-field group is populated, determined by Type.
type DateSpec struct {
	Type      DateType
	Date      *time.Time // full, half
	StartTime string     // half, 24h "15:04"
	EndTime   string     // half
	StartDate *time.Time // multiple
	EndDate   *time.Time // multiple
}

// Validate enforces the exactly-one-group invariant.
func (d DateSpec) Validate() error {
	switch d.Type {
	case DateTypeFull:
		if d.Date == nil {
			return appErrors.Clone(appErrors.ErrValidation, "full day booking requires eventDate")
		}
	case DateTypeHalf:
		if d.Date == nil {
			return appErrors.Clone(appErrors.ErrValidation, "half day booking requires eventDate")
		}
		if d.StartTime == "" || d.EndTime == "" {
			return appErrors.Clone(appErrors.ErrValidation, "half day booking requires startTime and endTime")
		}
	case DateTypeMultiple:
		if d.StartDate == nil || d.EndDate == nil {
			return appErrors.Clone(appErrors.ErrValidation, "multiple day booking requires eventStartDate and eventEndDate")
		}
		if d.EndDate.Before(*d.StartDate) {
			return appErrors.Clone(appErrors.ErrValidation, "eventStartDate must not be after eventEndDate")
		}
	default:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown event date type %q", d.Type))
	}
	return nil
}

// Booking is the canonical booking record. It is never deleted through the
// normal flow; status changes preserve the audit trail.
type Booking struct {
	ID              string        `db:"id" json:"id"`
	EventName       string        `db:"event_name" json:"eventName"`
	EventManager    string        `db:"event_manager" json:"eventManager"`
	OrganizingClub  string        `db:"organizing_club" json:"organizingClub,omitempty"`
	BookedHallID    string        `db:"booked_hall_id" json:"bookedHallId"`
	BookedHallName  string        `db:"booked_hall_name" json:"bookedHallName"`
	EventDateType   DateType      `db:"event_date_type" json:"eventDateType"`
	EventDate       *time.Time    `db:"event_date" json:"eventDate,omitempty"`
	EventStartDate  *time.Time    `db:"event_start_date" json:"eventStartDate,omitempty"`
	EventEndDate    *time.Time    `db:"event_end_date" json:"eventEndDate,omitempty"`
	StartTime       string        `db:"start_time" json:"startTime,omitempty"`
	EndTime         string        `db:"end_time" json:"endTime,omitempty"`
	Institution     string        `db:"institution" json:"institution"`
	Department      string        `db:"department" json:"department"`
	IsApproved      BookingStatus `db:"is_approved" json:"isApproved"`
	RejectionReason *string       `db:"rejection_reason" json:"rejectionReason,omitempty"`
	RequestedBy     string        `db:"requested_by" json:"requestedBy"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updatedAt"`
}

// ApplyDateSpec copies the populated group onto the booking and clears the
// other groups.
func (b *Booking) ApplyDateSpec(d DateSpec) {
	b.EventDateType = d.Type
	b.EventDate = nil
	b.EventStartDate = nil
	b.EventEndDate = nil
	b.StartTime = ""
	b.EndTime = ""

	switch d.Type {
	case DateTypeFull:
		b.EventDate = d.Date
	case DateTypeHalf:
		b.EventDate = d.Date
		b.StartTime = d.StartTime
		b.EndTime = d.EndTime
	case DateTypeMultiple:
		b.EventStartDate = d.StartDate
		b.EventEndDate = d.EndDate
	}
}

// BookingFilter defines filters supported by booking list endpoints.
type BookingFilter struct {
	Status      BookingStatus
	Institution string
	Department  string
	HallID      string
}
