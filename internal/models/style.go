package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Style is a hair-service family, e.g. "Knotless Braids".
type Style struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Active      bool   `gorm:"not null;default:false" json:"active"`

	Pricing []Pricing `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"pricing,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Variation is a size/length modifier combined with a Style through Pricing.
type Variation struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pricing binds a (Style, Variation) pair to a price and a duration.
type Pricing struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StyleID uint  `gorm:"not null;uniqueIndex:idx_pricing_style_variation" json:"style_id"`
	Style   Style `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"style,omitempty"`

	VariationID uint      `gorm:"not null;uniqueIndex:idx_pricing_style_variation" json:"variation_id"`
	Variation   Variation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"variation,omitempty"`

	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Pricing) TableName() string { return "pricings" }
