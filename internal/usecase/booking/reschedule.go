package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
	"github.com/Seimmet/dolcie-salon/internal/notification"
)

type RescheduleBookingInput struct {
	Actor     domain.Actor
	BookingID uint
	Date      string
	Time      string
}

type RescheduleBooking struct {
	repo     domain.Repository
	settings SettingsLoader
	engine   *availability.Engine
	cache    SlotCache
	notifier Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewRescheduleBooking(
	repo domain.Repository,
	settings SettingsLoader,
	engine *availability.Engine,
	cache SlotCache,
	notifier Notifier,
	auditDispatcher *audit.Dispatcher,
	log *zap.Logger,
) *RescheduleBooking {
	if log == nil {
		log = zap.NewNop()
	}
	return &RescheduleBooking{
		repo:     repo,
		settings: settings,
		engine:   engine,
		cache:    cache,
		notifier: notifier,
		audit:    auditDispatcher,
		log:      log,
	}
}

func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	in RescheduleBookingInput,
) (*models.Booking, error) {

	if in.BookingID == 0 || in.Date == "" || in.Time == "" {
		return nil, httperr.ErrInvalidRequest
	}

	// --------------------------------------------------
	// 1. Current booking
	// --------------------------------------------------
	current, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := domain.CanView(in.Actor, current); err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(current.Status)); err != nil {
		return nil, err
	}

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	date, err := cfg.Calendar.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := cfg.Calendar.At(date, in.Time)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. New slot, ignoring the booking's own interval
	// --------------------------------------------------
	slots, err := uc.engine.GetSlots(ctx, cfg, availability.Query{
		Date:             in.Date,
		StyleID:          current.StyleID,
		VariationID:      current.VariationID,
		StylistID:        current.StylistID,
		ExcludeBookingID: &current.ID,
		DurationMinutes:  current.DurationMinutes,
	})
	if err != nil {
		return nil, err
	}
	slot, ok := availability.Find(slots, in.Time)
	if !ok {
		return nil, httperr.ErrInvalidSlot
	}
	if !slot.Available {
		return nil, httperr.ErrSlotNoLongerAvailable
	}

	// --------------------------------------------------
	// 3. Move under lock; the repository re-checks the calendar
	// --------------------------------------------------
	oldDate := current.BookingDate

	updated, err := uc.repo.Update(ctx, in.BookingID, func(b *models.Booking) error {
		if err := domain.CanView(in.Actor, b); err != nil {
			return err
		}
		if b.StylistID == nil {
			id := slot.FreeStylists[0]
			b.StylistID = &id
		}
		return domain.Reschedule(b, in.Date, start)
	})
	if err != nil {
		return nil, notFound(err)
	}

	invalidate(uc.cache, ctx, oldDate, updated.BookingDate)

	uc.audit.Dispatch(audit.Event{
		ActorID:   in.Actor.UserID,
		ActorRole: string(in.Actor.Role),
		Action:    "booking_rescheduled",
		Entity:    "booking",
		EntityID:  &updated.ID,
		Metadata: map[string]any{
			"from_date": oldDate,
			"from_time": current.StartTime.In(cfg.Location).Format("15:04"),
			"to_date":   in.Date,
			"to_time":   in.Time,
		},
	})

	notify(uc.notifier, cfg, notification.NewMessage(notification.EventBookingRescheduled, updated, cfg.Location))

	return updated, nil
}
