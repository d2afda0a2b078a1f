package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint     `gorm:"not null;index" json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer"`

	StyleID uint  `gorm:"not null" json:"style_id"`
	Style   Style `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"style"`

	VariationID uint      `gorm:"not null" json:"variation_id"`
	Variation   Variation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"variation"`

	StylistID *uint    `gorm:"index" json:"stylist_id"`
	Stylist   *Stylist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"stylist,omitempty"`

	// BookingDate is the salon-local calendar date, "2006-01-02".
	BookingDate string    `gorm:"size:10;index;not null" json:"booking_date"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`

	// Snapshot taken at reserve time; later Pricing edits never touch it.
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	ServicePrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"service_price"`
	DepositAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"deposit_amount"`

	Status string `gorm:"size:20;default:'booked';index" json:"status"`

	PromoID *uint  `json:"promo_id"`
	Promo   *Promo `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"promo,omitempty"`

	Payments []Payment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payments"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CheckedInAt *time.Time `json:"checked_in_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave stores instants in UTC so range comparisons behave the same on
// every driver.
func (b *Booking) BeforeSave(*gorm.DB) error {
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
	return nil
}
