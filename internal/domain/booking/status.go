package booking

import "github.com/Seimmet/dolcie-salon/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusBooked     Status = "booked"
	StatusCheckedIn  Status = "checked_in"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Live bookings occupy their stylist's calendar.
func (s Status) Live() bool {
	return s != StatusCancelled
}

var transitions = map[Status][]Status{
	StatusBooked:     {StatusCheckedIn, StatusInProgress, StatusCancelled},
	StatusCheckedIn:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCancelled:  {StatusBooked},
	StatusCompleted:  {},
}

// ===============================
// Validations
// ===============================

// CanTransition rejects every edge not in the lifecycle, including
// booked -> completed.
func CanTransition(from, to Status) error {
	for _, s := range transitions[from] {
		if s == to {
			return nil
		}
	}
	return httperr.ErrInvalidTransition
}

// CanReschedule allows moving any booking that is neither completed nor
// cancelled.
func CanReschedule(current Status) error {
	if current == StatusCompleted || current == StatusCancelled {
		return httperr.ErrInvalidTransition
	}
	return nil
}

func InitialStatus() Status {
	return StatusBooked
}
