package booking

import (
	"context"
	"time"

	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/metrics"
)

type GetAvailability struct {
	settings SettingsLoader
	engine   *availability.Engine
	cache    SlotCache
	metrics  *metrics.Metrics
}

func NewGetAvailability(
	settings SettingsLoader,
	engine *availability.Engine,
	cache SlotCache,
	m *metrics.Metrics,
) *GetAvailability {
	return &GetAvailability{
		settings: settings,
		engine:   engine,
		cache:    cache,
		metrics:  m,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	q availability.Query,
) ([]availability.Slot, error) {

	if q.Date == "" || q.StyleID == 0 || q.VariationID == 0 {
		return nil, httperr.ErrInvalidRequest
	}
	if _, err := time.Parse("2006-01-02", q.Date); err != nil {
		return nil, httperr.ErrInvalidRequest
	}

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Cached listings were cut off at the time they were computed; the
	// cutoff is re-applied so passed starts never show as free.
	if uc.cache != nil {
		if slots, ok := uc.cache.Get(ctx, q); ok {
			uc.metrics.AvailabilityRequests.WithLabelValues("hit").Inc()
			return availability.ExpireBefore(cfg, q.Date, slots, uc.engine.Cutoff(cfg))
		}
	}
	uc.metrics.AvailabilityRequests.WithLabelValues("miss").Inc()

	started := time.Now()
	slots, err := uc.engine.GetSlots(ctx, cfg, q)
	if err != nil {
		return nil, err
	}
	uc.metrics.AvailabilityDuration.Observe(time.Since(started).Seconds())

	if uc.cache != nil {
		uc.cache.Set(ctx, q, slots)
	}
	return slots, nil
}
