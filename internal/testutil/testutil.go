// Package testutil builds throwaway sqlite databases seeded with a small
// salon catalog.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/Seimmet/dolcie-salon/internal/db"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

var seq atomic.Int64

// NewDB opens a private in-memory database on a single connection, so
// concurrent transactions serialize the way they would under row locks.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := dbpkg.Open(dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dbpkg.Migrate(db))
	return db
}

// Catalog is the demo salon: Box Braids and Knotless Braids in Small,
// Medium and Large, two stylists, open Tuesday to Saturday 09:00-19:00.
type Catalog struct {
	BoxBraids, Knotless  models.Style
	Small, Medium, Large models.Variation
	BoxMedium, BoxLarge  models.Pricing
	KnotlessMedium       models.Pricing
	Amara, Bea           models.Stylist
	Settings             models.SalonSettings
}

func Seed(t *testing.T, db *gorm.DB) *Catalog {
	t.Helper()

	c := &Catalog{
		BoxBraids: models.Style{Name: "Box Braids", Active: true},
		Knotless:  models.Style{Name: "Knotless Braids", Active: true},
		Small:     models.Variation{Name: "Small"},
		Medium:    models.Variation{Name: "Medium"},
		Large:     models.Variation{Name: "Large"},
	}
	require.NoError(t, db.Create(&c.BoxBraids).Error)
	require.NoError(t, db.Create(&c.Knotless).Error)
	require.NoError(t, db.Create(&c.Small).Error)
	require.NoError(t, db.Create(&c.Medium).Error)
	require.NoError(t, db.Create(&c.Large).Error)

	c.BoxMedium = models.Pricing{StyleID: c.BoxBraids.ID, VariationID: c.Medium.ID, Price: decimal.NewFromInt(150), DurationMinutes: 120}
	c.BoxLarge = models.Pricing{StyleID: c.BoxBraids.ID, VariationID: c.Large.ID, Price: decimal.NewFromInt(200), DurationMinutes: 180}
	c.KnotlessMedium = models.Pricing{StyleID: c.Knotless.ID, VariationID: c.Medium.ID, Price: decimal.NewFromInt(180), DurationMinutes: 150}
	require.NoError(t, db.Create(&c.BoxMedium).Error)
	require.NoError(t, db.Create(&c.BoxLarge).Error)
	require.NoError(t, db.Create(&c.KnotlessMedium).Error)

	c.Amara = models.Stylist{
		Name:   "Amara",
		Active: true,
		Styles: []models.StylistStyle{{StyleID: c.BoxBraids.ID}, {StyleID: c.Knotless.ID}},
	}
	c.Bea = models.Stylist{
		Name:              "Bea",
		Active:            true,
		SurchargeEligible: true,
		Surcharge:         decimal.NewFromInt(25),
		Styles:            []models.StylistStyle{{StyleID: c.BoxBraids.ID}},
	}
	require.NoError(t, db.Create(&c.Amara).Error)
	require.NoError(t, db.Create(&c.Bea).Error)

	for wd := 0; wd < 7; wd++ {
		h := models.BusinessHours{Weekday: wd}
		if wd >= 2 && wd <= 6 {
			h.IsOpen = true
			h.StartTime = "09:00"
			h.EndTime = "19:00"
		}
		require.NoError(t, db.Create(&h).Error)
	}

	c.Settings = models.SalonSettings{
		Name:                 "Test Salon",
		Timezone:             "America/New_York",
		Currency:             "usd",
		DepositAmount:        decimal.NewFromInt(50),
		ProcessingFeeRate:    decimal.RequireFromString("0.035"),
		SlotIntervalMinutes:  30,
		CheckInWindowMinutes: 30,
		NotificationsEnabled: true,
	}
	require.NoError(t, db.Create(&c.Settings).Error)

	return c
}
