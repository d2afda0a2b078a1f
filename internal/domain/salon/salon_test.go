package salon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seimmet/dolcie-salon/internal/models"
)

func TestFromModelsAppliesDefaults(t *testing.T) {
	cfg, err := FromModels(models.SalonSettings{Timezone: "Europe/Paris"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Paris", cfg.Location.String())
	assert.Equal(t, 30*time.Minute, cfg.SlotStep)
	assert.Equal(t, 30*time.Minute, cfg.CheckInWindow)
	assert.Equal(t, time.Duration(0), cfg.MinAdvance)
	assert.Equal(t, "usd", cfg.Currency)
}

func TestFromModelsKeepsExplicitValues(t *testing.T) {
	s := DefaultSettings()
	s.SlotIntervalMinutes = 15
	s.MinAdvanceMinutes = 60
	s.DepositAmount = decimal.NewFromInt(25)

	cfg, err := FromModels(s, []models.BusinessHours{
		{Weekday: 2, IsOpen: true, StartTime: "09:00", EndTime: "19:00"},
	})
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.SlotStep)
	assert.Equal(t, time.Hour, cfg.MinAdvance)
	assert.True(t, cfg.Deposit.Equal(decimal.NewFromInt(25)))
	assert.True(t, cfg.FeeRate.Equal(decimal.RequireFromString("0.035")))
	assert.True(t, cfg.NotificationsEnabled)
}

func TestFromModelsRejectsBadHours(t *testing.T) {
	_, err := FromModels(DefaultSettings(), []models.BusinessHours{
		{Weekday: 2, IsOpen: true, StartTime: "19:00", EndTime: "09:00"},
	})
	assert.Error(t, err)
}
