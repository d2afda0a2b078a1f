package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/domain/capability"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) GetPricing(
	ctx context.Context,
	styleID uint,
	variationID uint,
) (*models.Pricing, error) {

	var p models.Pricing
	if err := r.db.WithContext(ctx).
		Joins("JOIN styles ON styles.id = pricings.style_id AND styles.active = ?", true).
		Where("pricings.style_id = ? AND pricings.variation_id = ?", styleID, variationID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogGormRepository) GetStylist(
	ctx context.Context,
	id uint,
) (*models.Stylist, error) {

	var s models.Stylist
	if err := r.db.WithContext(ctx).
		Preload("Styles").
		First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogGormRepository) ListActiveStylistsForStyle(
	ctx context.Context,
	styleID uint,
) ([]models.Stylist, error) {

	var out []models.Stylist
	if err := r.db.WithContext(ctx).
		Preload("Styles").
		Where("active = ?", true).
		Where("id IN (?)", r.db.Model(&models.StylistStyle{}).
			Select("stylist_id").
			Where("style_id = ?", styleID)).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var _ capability.Catalog = (*CatalogGormRepository)(nil)
