package db

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/config"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	if isPostgres(cfg.DBUrl) {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	} else {
		// sqlite allows one writer at a time
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	if db.Dialector.Name() == "postgres" {
		if err := addOverlapExclusion(db); err != nil {
			log.Warn("booking overlap exclusion not installed", zap.Error(err))
		}
	}

	return db
}

// Open picks the postgres driver for postgres URLs and sqlite for anything
// else (a file path or ":memory:").
func Open(dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	}
	if isPostgres(dsn) {
		return gorm.Open(postgres.Open(dsn), gcfg)
	}
	return gorm.Open(sqlite.Open(dsn), gcfg)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.SalonSettings{},
		&models.BusinessHours{},
		&models.Style{},
		&models.Variation{},
		&models.Pricing{},
		&models.Stylist{},
		&models.StylistStyle{},
		&models.Customer{},
		&models.Promo{},
		&models.Booking{},
		&models.Payment{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// One live booking per stylist start time. Works on both dialects.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_stylist_start_live
		ON bookings (stylist_id, start_time)
		WHERE status <> 'cancelled'
	`).Error; err != nil {
		return err
	}

	return db.Exec(`
		UPDATE salon_settings
		SET timezone = 'America/New_York'
		WHERE timezone IS NULL OR timezone = ''
	`).Error
}

// addOverlapExclusion rejects overlapping live bookings for one stylist at
// the storage level. Requires btree_gist, which managed databases may not
// allow; the transactional re-check still holds without it.
func addOverlapExclusion(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	var exists int64
	if err := db.Raw(
		`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`,
		"bookings_no_overlap",
	).Scan(&exists).Error; err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	return db.Exec(`
		ALTER TABLE bookings
		ADD CONSTRAINT bookings_no_overlap
		EXCLUDE USING gist (
			stylist_id WITH =,
			tstzrange(start_time, end_time, '[)') WITH &&
		)
		WHERE (status <> 'cancelled')
	`).Error
}
