package models

import "time"

// Customer is either a registered user (UserID set) or a guest contact
// captured at booking time.
type Customer struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `gorm:"index" json:"user_id"`

	FullName   string `gorm:"size:100;not null" json:"full_name"`
	Email      string `gorm:"size:100;index" json:"email"`
	Phone      string `gorm:"size:20" json:"phone"`
	SMSConsent bool   `json:"sms_consent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
