package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

type BookingDTO struct {
	*models.Booking
	Balance domain.Balance `json:"balance"`
}

func NewBookingDTO(b *models.Booking) BookingDTO {
	return BookingDTO{Booking: b, Balance: domain.ComputeBalance(b)}
}

// ScheduleItemDTO is one row of a stylist's day.
type ScheduleItemDTO struct {
	ID            uint            `json:"id"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	Status        string          `json:"status"`
	CustomerName  string          `json:"customer_name"`
	StyleName     string          `json:"style_name"`
	VariationName string          `json:"variation_name"`
	StylistID     *uint           `json:"stylist_id"`
	AmountDue     decimal.Decimal `json:"amount_due"`
}

func NewScheduleItemDTO(b models.Booking) ScheduleItemDTO {
	return ScheduleItemDTO{
		ID:            b.ID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        b.Status,
		CustomerName:  b.Customer.FullName,
		StyleName:     b.Style.Name,
		VariationName: b.Variation.Name,
		StylistID:     b.StylistID,
		AmountDue:     domain.ComputeBalance(&b).AmountDue,
	}
}
