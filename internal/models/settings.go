package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalonSettings is a single-row table holding the salon-wide business policy.
type SalonSettings struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100" json:"name"`
	Email string `gorm:"size:100" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	Timezone string `gorm:"size:64;default:'America/New_York'" json:"timezone"`
	Currency string `gorm:"size:3;default:'usd'" json:"currency"`

	DepositAmount     decimal.Decimal `gorm:"type:decimal(10,2)" json:"deposit_amount"`
	ProcessingFeeRate decimal.Decimal `gorm:"type:decimal(6,4)" json:"processing_fee_rate"`

	SlotIntervalMinutes  int  `gorm:"default:30" json:"slot_interval_minutes"`
	MinAdvanceMinutes    int  `gorm:"default:0" json:"min_advance_minutes"`
	CheckInWindowMinutes int  `gorm:"default:30" json:"check_in_window_minutes"`
	NotificationsEnabled bool `gorm:"not null;default:false" json:"notifications_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SalonSettings) TableName() string { return "salon_settings" }
