package capability

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

// Catalog is the read side of styles, pricing and stylists.
type Catalog interface {
	GetPricing(
		ctx context.Context,
		styleID uint,
		variationID uint,
	) (*models.Pricing, error)

	// GetStylist returns the stylist with Styles preloaded.
	GetStylist(
		ctx context.Context,
		id uint,
	) (*models.Stylist, error)

	// ListActiveStylistsForStyle returns active, capable stylists ordered
	// by id, with Styles preloaded.
	ListActiveStylistsForStyle(
		ctx context.Context,
		styleID uint,
	) ([]models.Stylist, error)
}

// Offering is a concrete priced, timed service.
type Offering struct {
	PricingID       uint
	StyleID         uint
	VariationID     uint
	Price           decimal.Decimal
	DurationMinutes int
}

type Resolver struct {
	catalog Catalog
}

func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve fails with invalid_service when the pair has no Pricing row.
func (r *Resolver) Resolve(ctx context.Context, styleID, variationID uint) (*Offering, error) {
	p, err := r.catalog.GetPricing(ctx, styleID, variationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrInvalidService
		}
		return nil, err
	}
	if p.DurationMinutes <= 0 {
		return nil, httperr.ErrInvalidService
	}

	return &Offering{
		PricingID:       p.ID,
		StyleID:         p.StyleID,
		VariationID:     p.VariationID,
		Price:           p.Price,
		DurationMinutes: p.DurationMinutes,
	}, nil
}

// EligibleStylists returns the requested stylist only when active and
// capable of the style; an empty result then means "that stylist cannot do
// this", distinct from "no free slot". Without a request it returns the
// whole pool.
func (r *Resolver) EligibleStylists(
	ctx context.Context,
	styleID uint,
	requestedStylistID *uint,
) ([]models.Stylist, error) {

	if requestedStylistID == nil {
		return r.catalog.ListActiveStylistsForStyle(ctx, styleID)
	}

	st, err := r.catalog.GetStylist(ctx, *requestedStylistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound
		}
		return nil, err
	}

	if !st.Active || !st.CanPerform(styleID) {
		return []models.Stylist{}, nil
	}
	return []models.Stylist{*st}, nil
}

// Surcharge is zero unless the stylist is surcharge-eligible; then the
// style-specific override wins over the base surcharge.
func Surcharge(st models.Stylist, styleID uint) decimal.Decimal {
	if !st.SurchargeEligible {
		return decimal.Zero
	}
	for _, ss := range st.Styles {
		if ss.StyleID == styleID && ss.Surcharge != nil {
			return *ss.Surcharge
		}
	}
	return st.Surcharge
}
