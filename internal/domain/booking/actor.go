package booking

import (
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStylist  Role = "stylist"
	RoleCustomer Role = "customer"
	RoleGuest    Role = ""
)

// Actor is the caller identity as asserted by the auth layer. It is taken
// as given and never re-derived here.
type Actor struct {
	UserID    *uint
	Role      Role
	StylistID *uint
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanView reports whether the actor may see or act on b at all.
func CanView(a Actor, b *models.Booking) error {
	switch a.Role {
	case RoleAdmin:
		return nil
	case RoleStylist:
		if a.StylistID != nil && b.StylistID != nil && *a.StylistID == *b.StylistID {
			return nil
		}
	case RoleCustomer:
		if a.UserID != nil && b.Customer.UserID != nil && *a.UserID == *b.Customer.UserID {
			return nil
		}
	}
	return httperr.ErrForbidden
}

// CanSetStatus checks who may drive each edge: restore is admin-only, staff
// move the service along and cancel, and customers only check in (through
// the check-in operation, not here).
func CanSetStatus(a Actor, b *models.Booking, to Status) error {
	if err := CanView(a, b); err != nil {
		return err
	}

	switch to {
	case StatusBooked:
		if a.Role == RoleAdmin {
			return nil
		}
	case StatusCheckedIn, StatusInProgress, StatusCompleted, StatusCancelled:
		if a.Role == RoleAdmin || a.Role == RoleStylist {
			return nil
		}
	}
	return httperr.ErrForbidden
}

// CanAssign is admin-only.
func CanAssign(a Actor) error {
	if a.Role != RoleAdmin {
		return httperr.ErrForbidden
	}
	return nil
}
