package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/domain/salon"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

type SettingsGormRepository struct {
	db *gorm.DB
}

func NewSettingsGormRepository(db *gorm.DB) *SettingsGormRepository {
	return &SettingsGormRepository{db: db}
}

// GetSettings returns the single settings row, creating it with defaults on
// first use.
func (r *SettingsGormRepository) GetSettings(ctx context.Context) (*models.SalonSettings, error) {
	var s models.SalonSettings
	err := r.db.WithContext(ctx).Order("id ASC").First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s = salon.DefaultSettings()
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsGormRepository) ListBusinessHours(ctx context.Context) ([]models.BusinessHours, error) {
	var out []models.BusinessHours
	if err := r.db.WithContext(ctx).Order("weekday ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Load builds the explicit salon policy handed to the booking engine.
func (r *SettingsGormRepository) Load(ctx context.Context) (*salon.Config, error) {
	s, err := r.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	hours, err := r.ListBusinessHours(ctx)
	if err != nil {
		return nil, err
	}
	return salon.FromModels(*s, hours)
}

// ReplaceBusinessHours swaps the whole weekly table.
func (r *SettingsGormRepository) ReplaceBusinessHours(ctx context.Context, hours []models.BusinessHours) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.BusinessHours{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		return tx.Create(&hours).Error
	})
}

func (r *SettingsGormRepository) SaveSettings(ctx context.Context, s *models.SalonSettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
