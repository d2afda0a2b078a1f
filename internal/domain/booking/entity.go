package booking

import (
	"time"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves b to the target status and stamps the matching
// timestamp. Restore clears the cancellation stamp.
func Transition(b *models.Booking, to Status, now time.Time) error {
	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	switch to {
	case StatusCheckedIn:
		b.CheckedInAt = &now
	case StatusInProgress:
		b.StartedAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
	case StatusBooked:
		b.CancelledAt = nil
	}

	b.Status = string(to)
	return nil
}

// CheckIn succeeds only while now is within window of the scheduled start,
// inclusive at both edges.
func CheckIn(b *models.Booking, now time.Time, window time.Duration) error {
	if err := CanTransition(Status(b.Status), StatusCheckedIn); err != nil {
		return err
	}

	diff := now.Sub(b.StartTime)
	if diff < -window || diff > window {
		return httperr.ErrCheckInWindowClosed
	}

	return Transition(b, StatusCheckedIn, now)
}

// Reschedule moves the booking keeping its snapshotted duration. A checked
// in booking goes back to booked since the customer is no longer on site
// for the new time.
func Reschedule(b *models.Booking, date string, start time.Time) error {
	if err := CanReschedule(Status(b.Status)); err != nil {
		return err
	}

	b.BookingDate = date
	b.StartTime = start
	b.EndTime = start.Add(time.Duration(b.DurationMinutes) * time.Minute)

	if Status(b.Status) == StatusCheckedIn {
		b.Status = string(StatusBooked)
		b.CheckedInAt = nil
	}
	return nil
}
