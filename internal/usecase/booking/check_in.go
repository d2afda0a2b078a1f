package booking

import (
	"context"
	"strings"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
	"github.com/Seimmet/dolcie-salon/internal/timezone"
)

type CheckInInput struct {
	Actor     domain.Actor
	BookingID uint

	// Email identifies a guest at the front desk kiosk.
	Email string
}

type CheckInBooking struct {
	repo     domain.Repository
	settings SettingsLoader
	audit    *audit.Dispatcher
	now      timezone.Clock
}

func NewCheckInBooking(
	repo domain.Repository,
	settings SettingsLoader,
	auditDispatcher *audit.Dispatcher,
	now timezone.Clock,
) *CheckInBooking {
	if now == nil {
		now = timezone.SystemClock
	}
	return &CheckInBooking{
		repo:     repo,
		settings: settings,
		audit:    auditDispatcher,
		now:      now,
	}
}

func (uc *CheckInBooking) Execute(
	ctx context.Context,
	in CheckInInput,
) (*models.Booking, error) {

	if in.BookingID == 0 {
		return nil, httperr.ErrInvalidRequest
	}

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, in.BookingID, func(b *models.Booking) error {
		if in.Actor.Role == domain.RoleGuest {
			email := strings.TrimSpace(in.Email)
			if email == "" || !strings.EqualFold(email, b.Customer.Email) {
				return httperr.ErrForbidden
			}
		} else if err := domain.CanView(in.Actor, b); err != nil {
			return err
		}
		return domain.CheckIn(b, uc.now(), cfg.CheckInWindow)
	})
	if err != nil {
		return nil, notFound(err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   in.Actor.UserID,
		ActorRole: string(in.Actor.Role),
		Action:    "booking_checked_in",
		Entity:    "booking",
		EntityID:  &updated.ID,
	})

	return updated, nil
}
