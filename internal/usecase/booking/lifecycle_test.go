package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
	"github.com/Seimmet/dolcie-salon/internal/notification"
)

func (f *fixture) book(t *testing.T, hm string, stylist *models.Stylist) *models.Booking {
	t.Helper()
	var id *uint
	if stylist != nil {
		id = &stylist.ID
	}
	f.seq++
	b, err := f.reserver().Execute(context.Background(), f.reserveInput(hm, f.paidIntent(fmt.Sprintf("pi_book_%d", f.seq)), id))
	require.NoError(t, err)
	return b
}

// --------------------------------------------------
// Reschedule
// --------------------------------------------------

func TestRescheduleMovesBookingKeepingDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "10:00", &f.cat.Amara)

	uc := NewRescheduleBooking(f.repo, f.settings, f.engine, nil, f.notifier, nil, nil)

	// overlapping its own interval is fine
	moved, err := uc.Execute(ctx, RescheduleBookingInput{Actor: admin(), BookingID: b.ID, Date: testDate, Time: "11:00"})
	require.NoError(t, err)
	assert.True(t, moved.StartTime.Equal(f.at("11:00")))
	assert.True(t, moved.EndTime.Equal(f.at("13:00")))
	assert.Equal(t, f.cat.Amara.ID, *moved.StylistID)
	assert.True(t, moved.ServicePrice.Equal(b.ServicePrice))

	moved, err = uc.Execute(ctx, RescheduleBookingInput{Actor: admin(), BookingID: b.ID, Date: "2030-03-06", Time: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, "2030-03-06", moved.BookingDate)

	assert.Contains(t, f.notifier.events(), notification.EventBookingRescheduled)
}

func TestRescheduleSurvivesRetiredStyleAndStylist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "10:00", &f.cat.Amara)

	require.NoError(t, f.db.Model(&models.Style{}).Where("id = ?", f.cat.BoxBraids.ID).Update("active", false).Error)
	require.NoError(t, f.db.Model(&models.Stylist{}).Where("id = ?", f.cat.Amara.ID).Update("active", false).Error)

	uc := NewRescheduleBooking(f.repo, f.settings, f.engine, nil, f.notifier, nil, nil)

	moved, err := uc.Execute(ctx, RescheduleBookingInput{Actor: admin(), BookingID: b.ID, Date: testDate, Time: "14:00"})
	require.NoError(t, err)
	assert.True(t, moved.StartTime.Equal(f.at("14:00")))
	assert.True(t, moved.EndTime.Equal(f.at("16:00")))
	assert.Equal(t, f.cat.Amara.ID, *moved.StylistID)

	// new bookings of the retired style are still refused
	_, err = f.reserver().Execute(ctx, f.reserveInput("10:00", f.paidIntent("pi_retired"), nil))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidService))
}

func TestRescheduleRejectsTakenSlotAndFinalStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.book(t, "10:00", &f.cat.Amara)
	second := f.book(t, "13:00", &f.cat.Amara)

	uc := NewRescheduleBooking(f.repo, f.settings, f.engine, nil, f.notifier, nil, nil)

	_, err := uc.Execute(ctx, RescheduleBookingInput{Actor: admin(), BookingID: second.ID, Date: testDate, Time: "11:00"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotNoLongerAvailable))

	_, err = f.repo.Update(ctx, first.ID, func(b *models.Booking) error {
		return domain.Transition(b, domain.StatusCancelled, f.now)
	})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, RescheduleBookingInput{Actor: admin(), BookingID: first.ID, Date: testDate, Time: "15:00"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))

	_, err = uc.Execute(ctx, RescheduleBookingInput{Actor: admin(), BookingID: 999, Date: testDate, Time: "15:00"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))

	_, err = uc.Execute(ctx, RescheduleBookingInput{Actor: stylistActor(f.cat.Bea.ID), BookingID: second.ID, Date: testDate, Time: "15:00"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))
}

// --------------------------------------------------
// Status
// --------------------------------------------------

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "10:00", &f.cat.Amara)

	uc := NewUpdateStatus(f.repo, f.settings, nil, f.notifier, nil, f.metrics, f.clock)
	staff := stylistActor(f.cat.Amara.ID)

	_, err := uc.Execute(ctx, UpdateStatusInput{Actor: staff, BookingID: b.ID, Status: domain.StatusCompleted})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))

	got, err := uc.Execute(ctx, UpdateStatusInput{Actor: staff, BookingID: b.ID, Status: domain.StatusInProgress})
	require.NoError(t, err)
	assert.NotNil(t, got.StartedAt)

	got, err = uc.Execute(ctx, UpdateStatusInput{Actor: staff, BookingID: b.ID, Status: domain.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)
	assert.NotNil(t, got.CompletedAt)

	_, err = uc.Execute(ctx, UpdateStatusInput{Actor: staff, BookingID: b.ID, Status: domain.StatusCancelled})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))

	_, err = uc.Execute(ctx, UpdateStatusInput{Actor: staff, BookingID: b.ID, Status: "archived"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
}

func TestCancelFreesSlotAndRestoreIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "10:00", &f.cat.Amara)

	uc := NewUpdateStatus(f.repo, f.settings, nil, f.notifier, nil, f.metrics, f.clock)

	cancelled, err := uc.Execute(ctx, UpdateStatusInput{Actor: stylistActor(f.cat.Amara.ID), BookingID: b.ID, Status: domain.StatusCancelled})
	require.NoError(t, err)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = uc.Execute(ctx, UpdateStatusInput{Actor: stylistActor(f.cat.Amara.ID), BookingID: b.ID, Status: domain.StatusBooked})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	// the freed slot is taken by someone else, so restoring conflicts
	f.book(t, "11:00", &f.cat.Amara)
	_, err = uc.Execute(ctx, UpdateStatusInput{Actor: admin(), BookingID: b.ID, Status: domain.StatusBooked})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotNoLongerAvailable))

	assert.Contains(t, f.notifier.events(), notification.EventBookingCancelled)
}

func TestRestoreCancelledBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "10:00", &f.cat.Amara)

	uc := NewUpdateStatus(f.repo, f.settings, nil, f.notifier, nil, f.metrics, f.clock)

	_, err := uc.Execute(ctx, UpdateStatusInput{Actor: admin(), BookingID: b.ID, Status: domain.StatusCancelled})
	require.NoError(t, err)

	restored, err := uc.Execute(ctx, UpdateStatusInput{Actor: admin(), BookingID: b.ID, Status: domain.StatusBooked})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusBooked), restored.Status)
	assert.Nil(t, restored.CancelledAt)
	assert.Contains(t, f.notifier.events(), notification.EventBookingRestored)
}

// --------------------------------------------------
// Check-in
// --------------------------------------------------

func TestCheckInWindow(t *testing.T) {
	cases := []struct {
		name   string
		offset time.Duration
		ok     bool
	}{
		{"29 min early", -29 * time.Minute, true},
		{"29 min late", 29 * time.Minute, true},
		{"31 min early", -31 * time.Minute, false},
		{"31 min late", 31 * time.Minute, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.book(t, "10:00", &f.cat.Amara)

			f.now = f.at("10:00").Add(tc.offset)
			uc := NewCheckInBooking(f.repo, f.settings, nil, f.clock)

			got, err := uc.Execute(context.Background(), CheckInInput{BookingID: b.ID, Email: "ADA@example.com"})
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, string(domain.StatusCheckedIn), got.Status)
				return
			}
			assert.True(t, httperr.IsBusiness(err, httperr.CodeCheckInWindowClosed))
		})
	}
}

func TestGuestCheckInNeedsMatchingEmail(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "10:00", &f.cat.Amara)
	f.now = f.at("09:50")

	uc := NewCheckInBooking(f.repo, f.settings, nil, f.clock)

	_, err := uc.Execute(context.Background(), CheckInInput{BookingID: b.ID, Email: "someone@else.com"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	_, err = uc.Execute(context.Background(), CheckInInput{BookingID: b.ID})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	got, err := uc.Execute(context.Background(), CheckInInput{Actor: stylistActor(f.cat.Amara.ID), BookingID: b.ID})
	require.NoError(t, err)
	assert.NotNil(t, got.CheckedInAt)
}

// --------------------------------------------------
// Assignment
// --------------------------------------------------

func TestAssignStylist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "10:00", &f.cat.Amara)

	uc := NewAssignStylist(f.repo, f.resolver, nil, nil)

	_, err := uc.Execute(ctx, AssignStylistInput{Actor: stylistActor(f.cat.Amara.ID), BookingID: b.ID, StylistID: f.cat.Bea.ID})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	got, err := uc.Execute(ctx, AssignStylistInput{Actor: admin(), BookingID: b.ID, StylistID: f.cat.Bea.ID})
	require.NoError(t, err)
	assert.Equal(t, f.cat.Bea.ID, *got.StylistID)
	assert.True(t, got.ServicePrice.Equal(decimal.NewFromInt(150)), "price is not re-derived")

	// Amara takes a new 10:00 booking, so moving the first one back conflicts
	other := f.book(t, "10:00", &f.cat.Amara)
	_, err = uc.Execute(ctx, AssignStylistInput{Actor: admin(), BookingID: b.ID, StylistID: f.cat.Amara.ID})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotNoLongerAvailable))
	assert.NotZero(t, other.ID)

	knotless := models.Booking{}
	require.NoError(t, f.db.First(&knotless, b.ID).Error)
	require.NoError(t, f.db.Model(&knotless).Update("style_id", f.cat.Knotless.ID).Error)
	_, err = uc.Execute(ctx, AssignStylistInput{Actor: admin(), BookingID: b.ID, StylistID: f.cat.Bea.ID})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNoEligibleStylist))
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func TestAddPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "10:00", &f.cat.Amara)

	uc := NewAddPayment(f.repo, f.payments, nil, f.metrics, f.clock)

	customer := domain.Actor{Role: domain.RoleCustomer, UserID: uintPtr(77)}
	_, err := uc.Execute(ctx, AddPaymentInput{Actor: customer, BookingID: b.ID, Amount: decimal.NewFromInt(10), Method: "cash"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	got, err := uc.Execute(ctx, AddPaymentInput{Actor: stylistActor(f.cat.Amara.ID), BookingID: b.ID, Amount: decimal.NewFromInt(100), Method: "CASH"})
	require.NoError(t, err)
	bal := domain.ComputeBalance(got)
	assert.True(t, bal.AmountDue.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, string(domain.StatusBooked), got.Status, "payments never move status")

	f.gateway.Add(paymentIntent("pi_rest", 5000, true))
	got, err = uc.Execute(ctx, AddPaymentInput{Actor: admin(), BookingID: b.ID, Amount: decimal.NewFromInt(50), Method: "gateway", GatewayRef: "pi_rest"})
	require.NoError(t, err)
	assert.True(t, domain.ComputeBalance(got).AmountDue.IsZero())

	_, err = uc.Execute(ctx, AddPaymentInput{Actor: admin(), BookingID: b.ID, Amount: decimal.NewFromInt(50), Method: "gateway", GatewayRef: "pi_rest"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodePaymentAlreadyUsed))

	f.gateway.Add(paymentIntent("pi_pending", 5000, false))
	_, err = uc.Execute(ctx, AddPaymentInput{Actor: admin(), BookingID: b.ID, Amount: decimal.NewFromInt(50), Method: "gateway", GatewayRef: "pi_pending"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodePaymentNotConfirmed))

	_, err = uc.Execute(ctx, AddPaymentInput{Actor: admin(), BookingID: b.ID, Amount: decimal.NewFromInt(50), Method: "gateway"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))

	_, err = uc.Execute(ctx, AddPaymentInput{Actor: admin(), BookingID: b.ID, Amount: decimal.Zero, Method: "cash"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func TestListBookingsScopesStylists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "10:00", &f.cat.Amara)
	f.book(t, "10:00", &f.cat.Bea)

	uc := NewListBookings(f.repo)

	all, err := uc.Execute(ctx, ListBookingsInput{Actor: admin(), Date: testDate})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := uc.Execute(ctx, ListBookingsInput{Actor: stylistActor(f.cat.Bea.ID), Date: testDate})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.cat.Bea.ID, *own[0].StylistID)

	_, err = uc.Execute(ctx, ListBookingsInput{Actor: stylistActor(f.cat.Bea.ID), Date: testDate, StylistID: &f.cat.Amara.ID})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	_, err = uc.Execute(ctx, ListBookingsInput{Actor: domain.Actor{Role: domain.RoleCustomer}, Date: testDate})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	_, err = uc.Execute(ctx, ListBookingsInput{Actor: admin(), Date: "05/03/2030"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
}

func TestGetBookingVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "10:00", &f.cat.Amara)

	uc := NewGetBooking(f.repo)

	_, err := uc.Execute(ctx, stylistActor(f.cat.Amara.ID), b.ID)
	assert.NoError(t, err)

	_, err = uc.Execute(ctx, stylistActor(f.cat.Bea.ID), b.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	_, err = uc.Execute(ctx, admin(), 4040)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}
