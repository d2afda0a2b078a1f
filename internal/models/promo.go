package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promo is a time-boxed discount bound to exactly one Pricing entry. Either
// DiscountPercentage or PromoPrice is set; the percentage wins when both are.
type Promo struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:100;not null" json:"title"`

	PricingID uint    `gorm:"not null;index" json:"pricing_id"`
	Pricing   Pricing `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"pricing"`

	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percentage"`
	PromoPrice         decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"promo_price"`

	Month  int       `json:"month"`
	Year   int       `json:"year"`
	EndsAt time.Time `json:"ends_at"`
	Active bool      `gorm:"not null;default:false" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
