package booking

import (
	"context"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/domain/capability"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

type AssignStylistInput struct {
	Actor     domain.Actor
	BookingID uint
	StylistID uint
}

// AssignStylist hands a booking to another capable stylist. The price
// snapshot stays as reserved.
type AssignStylist struct {
	repo     domain.Repository
	resolver *capability.Resolver
	cache    SlotCache
	audit    *audit.Dispatcher
}

func NewAssignStylist(
	repo domain.Repository,
	resolver *capability.Resolver,
	cache SlotCache,
	auditDispatcher *audit.Dispatcher,
) *AssignStylist {
	return &AssignStylist{
		repo:     repo,
		resolver: resolver,
		cache:    cache,
		audit:    auditDispatcher,
	}
}

func (uc *AssignStylist) Execute(
	ctx context.Context,
	in AssignStylistInput,
) (*models.Booking, error) {

	if err := domain.CanAssign(in.Actor); err != nil {
		return nil, err
	}
	if in.BookingID == 0 || in.StylistID == 0 {
		return nil, httperr.ErrInvalidRequest
	}

	current, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, notFound(err)
	}

	stylists, err := uc.resolver.EligibleStylists(ctx, current.StyleID, &in.StylistID)
	if err != nil {
		return nil, err
	}
	if len(stylists) == 0 {
		return nil, httperr.ErrNoEligibleStylist
	}

	var previous *uint
	updated, err := uc.repo.Update(ctx, in.BookingID, func(b *models.Booking) error {
		if err := domain.CanReschedule(domain.Status(b.Status)); err != nil {
			return err
		}
		previous = b.StylistID
		id := in.StylistID
		b.StylistID = &id
		b.Stylist = nil
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}

	invalidate(uc.cache, ctx, updated.BookingDate)

	uc.audit.Dispatch(audit.Event{
		ActorID:   in.Actor.UserID,
		ActorRole: string(in.Actor.Role),
		Action:    "booking_stylist_assigned",
		Entity:    "booking",
		EntityID:  &updated.ID,
		Metadata:  map[string]any{"from": previous, "to": in.StylistID},
	})

	return updated, nil
}
