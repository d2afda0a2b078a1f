package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Seimmet/dolcie-salon/internal/models"
)

var hundred = decimal.NewFromInt(100)

// PromoApplies: the promo must be bound to exactly this Pricing row, be
// active, not have ended, and (when month/year are set) run in the current
// salon-local month.
func PromoApplies(p *models.Promo, pricingID uint, now time.Time) bool {
	if p == nil || !p.Active || p.PricingID != pricingID {
		return false
	}
	if !p.EndsAt.IsZero() && !now.Before(p.EndsAt) {
		return false
	}
	if p.Year != 0 && now.Year() != p.Year {
		return false
	}
	if p.Month != 0 && int(now.Month()) != p.Month {
		return false
	}
	return true
}

// ServicePrice is base + surcharge, then promo-adjusted when the promo
// applies. A percentage discount is taken off base+surcharge and rounded to
// cents; a fixed promo price replaces the base and keeps the surcharge.
func ServicePrice(
	base decimal.Decimal,
	surcharge decimal.Decimal,
	pricingID uint,
	promo *models.Promo,
	now time.Time,
) (decimal.Decimal, bool) {

	full := base.Add(surcharge)
	if !PromoApplies(promo, pricingID, now) {
		return full, false
	}

	if promo.DiscountPercentage.IsPositive() {
		off := full.Mul(promo.DiscountPercentage).Div(hundred)
		price := full.Sub(off).Round(2)
		if price.IsNegative() {
			price = decimal.Zero
		}
		return price, true
	}

	if promo.PromoPrice.IsPositive() {
		return promo.PromoPrice.Add(surcharge), true
	}

	return full, false
}
