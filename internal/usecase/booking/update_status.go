package booking

import (
	"context"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/metrics"
	"github.com/Seimmet/dolcie-salon/internal/models"
	"github.com/Seimmet/dolcie-salon/internal/notification"
	"github.com/Seimmet/dolcie-salon/internal/timezone"
)

type UpdateStatusInput struct {
	Actor     domain.Actor
	BookingID uint
	Status    domain.Status
}

// UpdateStatus drives the lifecycle for staff. Restoring a cancelled
// booking goes through the same calendar re-check as any other write that
// makes a booking live again.
type UpdateStatus struct {
	repo     domain.Repository
	settings SettingsLoader
	cache    SlotCache
	notifier Notifier
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	now      timezone.Clock
}

func NewUpdateStatus(
	repo domain.Repository,
	settings SettingsLoader,
	cache SlotCache,
	notifier Notifier,
	auditDispatcher *audit.Dispatcher,
	m *metrics.Metrics,
	now timezone.Clock,
) *UpdateStatus {
	if now == nil {
		now = timezone.SystemClock
	}
	return &UpdateStatus{
		repo:     repo,
		settings: settings,
		cache:    cache,
		notifier: notifier,
		audit:    auditDispatcher,
		metrics:  m,
		now:      now,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	if in.BookingID == 0 || !in.Status.Valid() {
		return nil, httperr.ErrInvalidRequest
	}

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	var from string
	updated, err := uc.repo.Update(ctx, in.BookingID, func(b *models.Booking) error {
		if err := domain.CanSetStatus(in.Actor, b, in.Status); err != nil {
			return err
		}
		from = b.Status
		return domain.Transition(b, in.Status, uc.now())
	})
	if err != nil {
		return nil, notFound(err)
	}

	uc.metrics.StatusChangesTotal.WithLabelValues(string(in.Status)).Inc()

	uc.audit.Dispatch(audit.Event{
		ActorID:   in.Actor.UserID,
		ActorRole: string(in.Actor.Role),
		Action:    "booking_status_changed",
		Entity:    "booking",
		EntityID:  &updated.ID,
		Metadata:  map[string]string{"from": from, "to": string(in.Status)},
	})

	switch in.Status {
	case domain.StatusCancelled:
		invalidate(uc.cache, ctx, updated.BookingDate)
		notify(uc.notifier, cfg, notification.NewMessage(notification.EventBookingCancelled, updated, cfg.Location))
	case domain.StatusBooked:
		invalidate(uc.cache, ctx, updated.BookingDate)
		notify(uc.notifier, cfg, notification.NewMessage(notification.EventBookingRestored, updated, cfg.Location))
	}

	return updated, nil
}
