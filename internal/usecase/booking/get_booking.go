package booking

import (
	"context"
	"time"

	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := domain.CanView(actor, b); err != nil {
		return nil, err
	}
	return b, nil
}

type ListBookingsInput struct {
	Actor     domain.Actor
	Date      string
	StylistID *uint
}

// ListBookings is the day schedule. Stylists only ever see their own
// column.
type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) Execute(
	ctx context.Context,
	in ListBookingsInput,
) ([]models.Booking, error) {

	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, httperr.ErrInvalidRequest
	}

	switch in.Actor.Role {
	case domain.RoleAdmin:
	case domain.RoleStylist:
		if in.Actor.StylistID == nil {
			return nil, httperr.ErrForbidden
		}
		if in.StylistID != nil && *in.StylistID != *in.Actor.StylistID {
			return nil, httperr.ErrForbidden
		}
		in.StylistID = in.Actor.StylistID
	default:
		return nil, httperr.ErrForbidden
	}

	return uc.repo.ListForDate(ctx, in.Date, in.StylistID)
}
