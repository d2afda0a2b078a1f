package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
	"github.com/Seimmet/dolcie-salon/internal/domain/salon"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/notification"
)

type SettingsLoader interface {
	Load(ctx context.Context) (*salon.Config, error)
}

// SlotCache is satisfied by *cache.AvailabilityCache; a nil value disables
// caching.
type SlotCache interface {
	Get(ctx context.Context, q availability.Query) ([]availability.Slot, bool)
	Set(ctx context.Context, q availability.Query, slots []availability.Slot)
	Invalidate(ctx context.Context, dates ...string)
}

type Notifier interface {
	Dispatch(msg notification.Message)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound
	}
	return err
}

func notify(n Notifier, cfg *salon.Config, msg notification.Message) {
	if n == nil || cfg == nil || !cfg.NotificationsEnabled {
		return
	}
	n.Dispatch(msg)
}

func invalidate(c SlotCache, ctx context.Context, dates ...string) {
	if c == nil {
		return
	}
	c.Invalidate(ctx, dates...)
}
