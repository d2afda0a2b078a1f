package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stylist struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     *uint  `gorm:"uniqueIndex" json:"user_id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Email      string `gorm:"size:100" json:"email"`
	Phone      string `gorm:"size:20" json:"phone"`
	SkillLevel string `gorm:"size:20" json:"skill_level"`
	Active     bool   `gorm:"not null;default:false" json:"active"`

	// SurchargeEligible gates every surcharge below; a stylist without the
	// flag never adds to the price.
	SurchargeEligible bool            `gorm:"default:false" json:"surcharge_eligible"`
	Surcharge         decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"surcharge"`

	Styles []StylistStyle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"styles,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StylistStyle marks a stylist as capable of a style, with an optional
// style-specific surcharge overriding the stylist's base surcharge.
type StylistStyle struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	StylistID uint             `gorm:"not null;uniqueIndex:idx_stylist_style" json:"stylist_id"`
	StyleID   uint             `gorm:"not null;uniqueIndex:idx_stylist_style" json:"style_id"`
	Surcharge *decimal.Decimal `gorm:"type:decimal(10,2)" json:"surcharge,omitempty"`
}

func (s *Stylist) CanPerform(styleID uint) bool {
	for _, ss := range s.Styles {
		if ss.StyleID == styleID {
			return true
		}
	}
	return false
}
