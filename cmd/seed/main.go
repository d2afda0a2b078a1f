// Command seed loads a demo catalog into an empty database.
package main

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/config"
	dbpkg "github.com/Seimmet/dolcie-salon/internal/db"
	"github.com/Seimmet/dolcie-salon/internal/logger"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	db := dbpkg.NewDB(cfg, log)

	if err := db.Transaction(func(tx *gorm.DB) error { return seed(tx, cfg) }); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("seed complete")
}

type priceRow struct {
	style, variation string
	price            int64
	minutes          int
}

func seed(tx *gorm.DB, cfg *config.Config) error {
	styles := map[string]*models.Style{}
	for _, name := range []string{"Box Braids", "Knotless Braids"} {
		s := models.Style{Name: name, Active: true}
		if err := tx.Where(models.Style{Name: name}).FirstOrCreate(&s).Error; err != nil {
			return err
		}
		styles[name] = &s
	}

	variations := map[string]*models.Variation{}
	for _, name := range []string{"Small", "Medium", "Large"} {
		v := models.Variation{Name: name}
		if err := tx.Where(models.Variation{Name: name}).FirstOrCreate(&v).Error; err != nil {
			return err
		}
		variations[name] = &v
	}

	rows := []priceRow{
		{"Box Braids", "Small", 120, 240},
		{"Box Braids", "Medium", 150, 180},
		{"Box Braids", "Large", 200, 150},
		{"Knotless Braids", "Small", 160, 300},
		{"Knotless Braids", "Medium", 180, 240},
		{"Knotless Braids", "Large", 220, 180},
	}
	for _, r := range rows {
		p := models.Pricing{
			StyleID:         styles[r.style].ID,
			VariationID:     variations[r.variation].ID,
			Price:           decimal.NewFromInt(r.price),
			DurationMinutes: r.minutes,
		}
		err := tx.Where(models.Pricing{StyleID: p.StyleID, VariationID: p.VariationID}).
			FirstOrCreate(&p).Error
		if err != nil {
			return err
		}
	}

	var stylists int64
	if err := tx.Model(&models.Stylist{}).Count(&stylists).Error; err != nil {
		return err
	}
	if stylists == 0 {
		demo := []models.Stylist{
			{
				Name:   "Amara",
				Active: true,
				Styles: []models.StylistStyle{
					{StyleID: styles["Box Braids"].ID},
					{StyleID: styles["Knotless Braids"].ID},
				},
			},
			{
				Name:              "Bea",
				Active:            true,
				SkillLevel:        "senior",
				SurchargeEligible: true,
				Surcharge:         decimal.NewFromInt(25),
				Styles:            []models.StylistStyle{{StyleID: styles["Box Braids"].ID}},
			},
		}
		if err := tx.Create(&demo).Error; err != nil {
			return err
		}
	}

	// Tuesday to Saturday, lunch break 13:00-13:30.
	for wd := 0; wd < 7; wd++ {
		h := models.BusinessHours{Weekday: wd}
		if wd >= 2 && wd <= 6 {
			h.IsOpen = true
			h.StartTime = "09:00"
			h.EndTime = "19:00"
			h.BreakStart = "13:00"
			h.BreakEnd = "13:30"
		}
		if err := tx.Where(models.BusinessHours{Weekday: wd}).FirstOrCreate(&h).Error; err != nil {
			return err
		}
	}

	settings := models.SalonSettings{
		Name:                 "Dolcie Salon",
		Timezone:             "America/New_York",
		Currency:             cfg.PaymentCurrency,
		DepositAmount:        decimal.NewFromInt(50),
		ProcessingFeeRate:    decimal.RequireFromString("0.035"),
		SlotIntervalMinutes:  30,
		MinAdvanceMinutes:    60,
		CheckInWindowMinutes: 30,
		NotificationsEnabled: true,
	}
	return tx.FirstOrCreate(&settings).Error
}
