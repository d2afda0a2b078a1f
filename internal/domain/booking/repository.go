package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Seimmet/dolcie-salon/internal/models"
)

// Candidate is a stylist that may take the reserved slot, with the price
// the booking would carry if they do.
type Candidate struct {
	StylistID    uint
	ServicePrice decimal.Decimal
	PromoApplied bool
}

type CustomerInfo struct {
	UserID     *uint
	FullName   string
	Email      string
	Phone      string
	SMSConsent bool
}

type ReserveRequest struct {
	// Candidates in preference order; the first one still free wins.
	Candidates []Candidate

	StyleID         uint
	VariationID     uint
	BookingDate     string
	Start           time.Time
	DurationMinutes int
	DepositAmount   decimal.Decimal
	PromoID         *uint
	Notes           string

	Customer CustomerInfo
	Deposit  models.Payment
}

func (r ReserveRequest) End() time.Time {
	return r.Start.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

type Repository interface {
	// -------- Read --------
	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	ListForDate(
		ctx context.Context,
		date string,
		stylistID *uint,
	) ([]models.Booking, error)

	ListBetween(
		ctx context.Context,
		fromDate string,
		toDate string,
	) ([]models.Booking, error)

	ListActiveForStylists(
		ctx context.Context,
		stylistIDs []uint,
		from time.Time,
		to time.Time,
		excludeBookingID *uint,
	) ([]models.Booking, error)

	FindPromo(
		ctx context.Context,
		id uint,
	) (*models.Promo, error)

	// -------- Write --------

	// Reserve re-checks every candidate's calendar and inserts the booking
	// with its deposit payment in one transaction.
	Reserve(
		ctx context.Context,
		req ReserveRequest,
	) (*models.Booking, error)

	// Update locks the booking, applies mutate, re-checks the stylist's
	// calendar when the result is live, and saves.
	Update(
		ctx context.Context,
		id uint,
		mutate func(b *models.Booking) error,
	) (*models.Booking, error)

	AddPayment(
		ctx context.Context,
		bookingID uint,
		p *models.Payment,
	) (*models.Booking, error)
}
