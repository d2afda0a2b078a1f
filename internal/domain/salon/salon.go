// Package salon turns the persisted settings row and weekly hours into the
// explicit policy object handed to the booking engine.
package salon

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Seimmet/dolcie-salon/internal/domain/calendar"
	"github.com/Seimmet/dolcie-salon/internal/models"
	"github.com/Seimmet/dolcie-salon/internal/timezone"
)

const (
	DefaultSlotStep      = 30 * time.Minute
	DefaultCheckInWindow = 30 * time.Minute
	DefaultCurrency      = "usd"
)

var (
	DefaultDeposit = decimal.NewFromInt(50)
	DefaultFeeRate = decimal.RequireFromString("0.035")
)

type Config struct {
	Name     string
	Calendar *calendar.Rules
	Location *time.Location

	SlotStep      time.Duration
	MinAdvance    time.Duration
	CheckInWindow time.Duration

	Deposit  decimal.Decimal
	FeeRate  decimal.Decimal
	Currency string

	NotificationsEnabled bool
}

// FromModels applies defaults for unset settings and validates the hours.
func FromModels(s models.SalonSettings, hours []models.BusinessHours) (*Config, error) {
	loc := timezone.Location(s.Timezone)

	rules, err := calendar.NewRules(hours, loc)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Name:                 s.Name,
		Calendar:             rules,
		Location:             loc,
		SlotStep:             minutesOr(s.SlotIntervalMinutes, DefaultSlotStep),
		MinAdvance:           time.Duration(max(s.MinAdvanceMinutes, 0)) * time.Minute,
		CheckInWindow:        minutesOr(s.CheckInWindowMinutes, DefaultCheckInWindow),
		Deposit:              s.DepositAmount,
		FeeRate:              s.ProcessingFeeRate,
		Currency:             s.Currency,
		NotificationsEnabled: s.NotificationsEnabled,
	}

	if cfg.Deposit.IsNegative() {
		cfg.Deposit = DefaultDeposit
	}
	if cfg.FeeRate.IsNegative() {
		cfg.FeeRate = DefaultFeeRate
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}

	return cfg, nil
}

// DefaultSettings is the row created on first boot.
func DefaultSettings() models.SalonSettings {
	return models.SalonSettings{
		Name:                 "Salon",
		Timezone:             timezone.DefaultTimezone,
		Currency:             DefaultCurrency,
		DepositAmount:        DefaultDeposit,
		ProcessingFeeRate:    DefaultFeeRate,
		SlotIntervalMinutes:  int(DefaultSlotStep / time.Minute),
		CheckInWindowMinutes: int(DefaultCheckInWindow / time.Minute),
		NotificationsEnabled: true,
	}
}

func minutesOr(m int, def time.Duration) time.Duration {
	if m <= 0 {
		return def
	}
	return time.Duration(m) * time.Minute
}
