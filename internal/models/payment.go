package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash    = "cash"
	PaymentMethodGateway = "gateway"
)

type Payment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"not null;index" json:"booking_id"`

	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	ProcessingFee decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"processing_fee"`
	Method        string          `gorm:"size:20;not null" json:"method"`
	GatewayRef    *string         `gorm:"size:255;uniqueIndex" json:"gateway_ref,omitempty"`
	IsDeposit     bool            `gorm:"default:false" json:"is_deposit"`
	PaidAt        time.Time       `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
}
