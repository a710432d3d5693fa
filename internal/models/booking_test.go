package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/campushall/hallbook-api/pkg/errors"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected typed error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestTransitionHappyPath(t *testing.T) {
	reason, err := Transition(StatusRequestSent, StatusApprovedByHOD, RoleHOD, "")
	require.NoError(t, err)
	assert.Nil(t, reason)

	reason, err = Transition(StatusApprovedByHOD, StatusApprovedByAdmin, RoleAdmin, "")
	require.NoError(t, err)
	assert.Nil(t, reason)

	// Admin may also act directly on a fresh request.
	_, err = Transition(StatusRequestSent, StatusApprovedByAdmin, RoleAdmin, "")
	require.NoError(t, err)
}

func TestTransitionRejectRequiresReason(t *testing.T) {
	for _, target := range []BookingStatus{StatusRejectedByHOD, StatusRejectedByAdmin} {
		actor := RoleHOD
		if target == StatusRejectedByAdmin {
			actor = RoleAdmin
		}

		_, err := Transition(StatusRequestSent, target, actor, "")
		assertCode(t, err, appErrors.ErrMissingReason.Code)

		_, err = Transition(StatusRequestSent, target, actor, "   \t ")
		assertCode(t, err, appErrors.ErrMissingReason.Code)

		reason, err := Transition(StatusRequestSent, target, actor, "  hall unavailable ")
		require.NoError(t, err)
		require.NotNil(t, reason)
		assert.Equal(t, "hall unavailable", *reason)
	}
}

func TestTransitionFromTerminalStatesFails(t *testing.T) {
	terminals := []BookingStatus{StatusApprovedByAdmin, StatusRejectedByHOD, StatusRejectedByAdmin}
	for _, from := range terminals {
		assert.True(t, from.Terminal())
		for target := range map[BookingStatus]struct{}{
			StatusApprovedByHOD:   {},
			StatusRejectedByHOD:   {},
			StatusApprovedByAdmin: {},
			StatusRejectedByAdmin: {},
		} {
			actor := RoleHOD
			if target == StatusApprovedByAdmin || target == StatusRejectedByAdmin {
				actor = RoleAdmin
			}
			_, err := Transition(from, target, actor, "reason")
			assertCode(t, err, appErrors.ErrInvalidTransition.Code)
		}
	}
}

func TestTransitionAdminCannotOverrideHODRejection(t *testing.T) {
	// HOD-rejected is terminal; admin approval is not a valid edge from it.
	_, err := Transition(StatusRejectedByHOD, StatusApprovedByAdmin, RoleAdmin, "")
	assertCode(t, err, appErrors.ErrInvalidTransition.Code)
}

func TestTransitionWrongActorIsForbidden(t *testing.T) {
	_, err := Transition(StatusRequestSent, StatusApprovedByAdmin, RoleHOD, "")
	assertCode(t, err, appErrors.ErrForbidden.Code)

	_, err = Transition(StatusRequestSent, StatusApprovedByHOD, RoleAdmin, "")
	assertCode(t, err, appErrors.ErrForbidden.Code)

	for _, role := range []UserRole{RoleFaculty, RoleStaff, RoleStudent} {
		_, err = Transition(StatusRequestSent, StatusApprovedByHOD, role, "")
		assertCode(t, err, appErrors.ErrForbidden.Code)
	}
}

func TestTransitionHODCannotActTwice(t *testing.T) {
	// ApprovedByHOD is not terminal, but no HOD edge starts there.
	_, err := Transition(StatusApprovedByHOD, StatusApprovedByHOD, RoleHOD, "")
	assertCode(t, err, appErrors.ErrInvalidTransition.Code)
}

func TestTransitionUnknownTargetRejected(t *testing.T) {
	_, err := Transition(StatusRequestSent, BookingStatus("ON_HOLD"), RoleAdmin, "")
	assertCode(t, err, appErrors.ErrValidation.Code)
}

func TestTransitionSources(t *testing.T) {
	assert.ElementsMatch(t,
		[]BookingStatus{StatusRequestSent, StatusApprovedByHOD},
		TransitionSources(StatusApprovedByAdmin))
	assert.Equal(t, []BookingStatus{StatusRequestSent}, TransitionSources(StatusRejectedByHOD))
	assert.Nil(t, TransitionSources(StatusRequestSent))
}

func TestDateSpecValidate(t *testing.T) {
	day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	later := day.AddDate(0, 0, 2)

	require.NoError(t, DateSpec{Type: DateTypeFull, Date: &day}.Validate())
	require.NoError(t, DateSpec{Type: DateTypeHalf, Date: &day, StartTime: "10:00", EndTime: "12:00"}.Validate())
	require.NoError(t, DateSpec{Type: DateTypeMultiple, StartDate: &day, EndDate: &later}.Validate())

	assert.Error(t, DateSpec{Type: DateTypeFull}.Validate())
	assert.Error(t, DateSpec{Type: DateTypeHalf, Date: &day}.Validate())
	assert.Error(t, DateSpec{Type: DateTypeMultiple, StartDate: &later, EndDate: &day}.Validate())
	assert.Error(t, DateSpec{Type: DateType("weekly"), Date: &day}.Validate())
}

func TestApplyDateSpecClearsOtherGroups(t *testing.T) {
	day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	later := day.AddDate(0, 0, 1)

	b := Booking{}
	b.ApplyDateSpec(DateSpec{Type: DateTypeHalf, Date: &day, StartTime: "09:00", EndTime: "11:00"})
	require.NotNil(t, b.EventDate)
	assert.Equal(t, "09:00", b.StartTime)

	b.ApplyDateSpec(DateSpec{Type: DateTypeMultiple, StartDate: &day, EndDate: &later})
	assert.Nil(t, b.EventDate)
	assert.Empty(t, b.StartTime)
	assert.Empty(t, b.EndTime)
	require.NotNil(t, b.EventStartDate)
}
