package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

func TestLifecycleInOrder(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: string(StatusBooked)}

	require.NoError(t, Transition(b, StatusInProgress, now))
	require.NotNil(t, b.StartedAt)
	require.NoError(t, Transition(b, StatusCompleted, now.Add(2*time.Hour)))
	assert.Equal(t, string(StatusCompleted), b.Status)
	assert.NotNil(t, b.CompletedAt)
}

func TestRejectedTransitions(t *testing.T) {
	cases := []struct{ from, to Status }{
		{StatusCompleted, StatusInProgress},
		{StatusCompleted, StatusCancelled},
		{StatusBooked, StatusCompleted},
		{StatusCheckedIn, StatusBooked},
		{StatusCancelled, StatusInProgress},
		{StatusBooked, StatusBooked},
	}
	for _, c := range cases {
		err := CanTransition(c.from, c.to)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition), "%s -> %s", c.from, c.to)
	}
}

func TestCancelAndRestore(t *testing.T) {
	now := time.Now()
	for _, from := range []Status{StatusBooked, StatusCheckedIn, StatusInProgress} {
		b := &models.Booking{Status: string(from)}
		require.NoError(t, Transition(b, StatusCancelled, now), from)
		require.NotNil(t, b.CancelledAt)

		require.NoError(t, Transition(b, StatusBooked, now))
		assert.Nil(t, b.CancelledAt)
		assert.Equal(t, string(StatusBooked), b.Status)
	}
}

func TestCheckInWindow(t *testing.T) {
	start := time.Date(2025, 3, 4, 14, 0, 0, 0, time.UTC)
	window := 30 * time.Minute

	for _, offset := range []time.Duration{-29 * time.Minute, 29 * time.Minute, -30 * time.Minute, 30 * time.Minute, 0} {
		b := &models.Booking{Status: string(StatusBooked), StartTime: start}
		assert.NoError(t, CheckIn(b, start.Add(offset), window), offset.String())
		assert.Equal(t, string(StatusCheckedIn), b.Status)
	}

	for _, offset := range []time.Duration{-31 * time.Minute, 31 * time.Minute} {
		b := &models.Booking{Status: string(StatusBooked), StartTime: start}
		err := CheckIn(b, start.Add(offset), window)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeCheckInWindowClosed), offset.String())
		assert.Equal(t, string(StatusBooked), b.Status)
	}

	b := &models.Booking{Status: string(StatusCancelled), StartTime: start}
	assert.True(t, httperr.IsBusiness(CheckIn(b, start, window), httperr.CodeInvalidTransition))
}

func TestReschedule(t *testing.T) {
	loc := time.UTC
	checkedIn := time.Now()
	b := &models.Booking{
		Status:          string(StatusCheckedIn),
		CheckedInAt:     &checkedIn,
		DurationMinutes: 90,
	}

	newStart := time.Date(2025, 3, 6, 11, 0, 0, 0, loc)
	require.NoError(t, Reschedule(b, "2025-03-06", newStart))
	assert.Equal(t, "2025-03-06", b.BookingDate)
	assert.Equal(t, newStart.Add(90*time.Minute), b.EndTime)
	assert.Equal(t, string(StatusBooked), b.Status)
	assert.Nil(t, b.CheckedInAt)

	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		b := &models.Booking{Status: string(s)}
		assert.Error(t, Reschedule(b, "2025-03-06", newStart), s)
	}
}

func TestActorPermissions(t *testing.T) {
	u := func(v uint) *uint { return &v }
	b := &models.Booking{
		StylistID: u(3),
		Customer:  models.Customer{UserID: u(42)},
		Status:    string(StatusCancelled),
	}

	admin := Actor{Role: RoleAdmin, UserID: u(1)}
	stylist := Actor{Role: RoleStylist, UserID: u(2), StylistID: u(3)}
	other := Actor{Role: RoleStylist, UserID: u(9), StylistID: u(8)}
	owner := Actor{Role: RoleCustomer, UserID: u(42)}
	guest := Actor{}

	assert.NoError(t, CanSetStatus(admin, b, StatusBooked))
	assert.Error(t, CanSetStatus(stylist, b, StatusBooked), "restore is admin only")
	assert.NoError(t, CanSetStatus(stylist, b, StatusInProgress))
	assert.Error(t, CanSetStatus(other, b, StatusInProgress))
	assert.Error(t, CanSetStatus(owner, b, StatusCancelled))

	assert.NoError(t, CanView(owner, b))
	assert.Error(t, CanView(guest, b))

	assert.NoError(t, CanAssign(admin))
	assert.True(t, httperr.IsBusiness(CanAssign(stylist), httperr.CodeForbidden))
}
