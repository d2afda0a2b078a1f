package booking

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/domain/capability"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/metrics"
	"github.com/Seimmet/dolcie-salon/internal/models"
	"github.com/Seimmet/dolcie-salon/internal/notification"
	"github.com/Seimmet/dolcie-salon/internal/payment"
	"github.com/Seimmet/dolcie-salon/internal/timezone"
	"github.com/Seimmet/dolcie-salon/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type ReserveBookingInput struct {
	Actor domain.Actor

	StyleID     uint
	VariationID uint
	StylistID   *uint

	Date string
	Time string

	Customer        domain.CustomerInfo
	PaymentIntentID string
	PromoID         *uint
	Notes           string
}

// ======================================================
// USE CASE
// ======================================================

type ReserveBooking struct {
	repo     domain.Repository
	settings SettingsLoader
	resolver *capability.Resolver
	engine   *availability.Engine
	payments *payment.Coordinator
	contacts *validators.ContactChecker
	cache    SlotCache
	notifier Notifier
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      timezone.Clock
}

type ReserveBookingDeps struct {
	Repo     domain.Repository
	Settings SettingsLoader
	Resolver *capability.Resolver
	Engine   *availability.Engine
	Payments *payment.Coordinator
	Contacts *validators.ContactChecker
	Cache    SlotCache
	Notifier Notifier
	Audit    *audit.Dispatcher
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	Now      timezone.Clock
}

func NewReserveBooking(d ReserveBookingDeps) *ReserveBooking {
	if d.Now == nil {
		d.Now = timezone.SystemClock
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &ReserveBooking{
		repo:     d.Repo,
		settings: d.Settings,
		resolver: d.Resolver,
		engine:   d.Engine,
		payments: d.Payments,
		contacts: d.Contacts,
		cache:    d.Cache,
		notifier: d.Notifier,
		audit:    d.Audit,
		metrics:  d.Metrics,
		log:      d.Log,
		now:      d.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ReserveBooking) Execute(
	ctx context.Context,
	in ReserveBookingInput,
) (*models.Booking, error) {

	b, err := uc.execute(ctx, in)

	outcome := "booked"
	if err != nil {
		outcome = httperr.Code(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	uc.metrics.BookingsTotal.WithLabelValues(outcome).Inc()

	return b, err
}

func (uc *ReserveBooking) execute(
	ctx context.Context,
	in ReserveBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Request validation, before any write
	// --------------------------------------------------
	if in.StyleID == 0 || in.VariationID == 0 || in.Date == "" || in.Time == "" ||
		strings.TrimSpace(in.PaymentIntentID) == "" {
		return nil, httperr.ErrInvalidRequest
	}
	if in.Actor.Role == domain.RoleCustomer && in.Actor.UserID != nil {
		in.Customer.UserID = in.Actor.UserID
	}
	if strings.TrimSpace(in.Customer.FullName) == "" || strings.TrimSpace(in.Customer.Email) == "" {
		return nil, httperr.ErrInvalidRequest
	}
	if err := uc.contacts.Check(in.Customer.Email, in.Customer.Phone); err != nil {
		return nil, err
	}
	in.Customer.Phone = validators.NormalizePhone(in.Customer.Phone)

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
	// 2. Service
	// --------------------------------------------------
	offering, err := uc.resolver.Resolve(ctx, in.StyleID, in.VariationID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Slot as of now
	// --------------------------------------------------
	slots, err := uc.engine.GetSlots(ctx, cfg, availability.Query{
		Date:        in.Date,
		StyleID:     in.StyleID,
		VariationID: in.VariationID,
		StylistID:   in.StylistID,
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
	// 4. Deposit must be confirmed before anything is written
	// --------------------------------------------------
	quote := payment.QuoteDeposit(cfg.Deposit, cfg.FeeRate)
	intent, err := uc.payments.RequireConfirmed(ctx, in.PaymentIntentID, quote.TotalCents)
	if err != nil {
		uc.metrics.PaymentChecks.WithLabelValues(httperr.Code(err)).Inc()
		return nil, err
	}
	uc.metrics.PaymentChecks.WithLabelValues("confirmed").Inc()

	// --------------------------------------------------
	// 5. Price per free stylist
	// --------------------------------------------------
	promo, err := uc.findPromo(ctx, in.PromoID)
	if err != nil {
		return nil, err
	}

	stylists, err := uc.resolver.EligibleStylists(ctx, in.StyleID, in.StylistID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Stylist, len(stylists))
	for _, st := range stylists {
		byID[st.ID] = st
	}

	now := uc.now().In(cfg.Location)
	candidates := make([]domain.Candidate, 0, len(slot.FreeStylists))
	for _, id := range slot.FreeStylists {
		st, ok := byID[id]
		if !ok {
			continue
		}
		price, applied := domain.ServicePrice(
			offering.Price,
			capability.Surcharge(st, in.StyleID),
			offering.PricingID,
			promo,
			now,
		)
		candidates = append(candidates, domain.Candidate{
			StylistID:    id,
			ServicePrice: price,
			PromoApplied: applied,
		})
	}
	if len(candidates) == 0 {
		return nil, httperr.ErrSlotNoLongerAvailable
	}

	// --------------------------------------------------
	// 6. Atomic re-check and insert
	// --------------------------------------------------
	ref := intent.ID
	b, err := uc.repo.Reserve(ctx, domain.ReserveRequest{
		Candidates:      candidates,
		StyleID:         in.StyleID,
		VariationID:     in.VariationID,
		BookingDate:     in.Date,
		Start:           start,
		DurationMinutes: offering.DurationMinutes,
		DepositAmount:   quote.Deposit,
		PromoID:         in.PromoID,
		Notes:           in.Notes,
		Customer:        in.Customer,
		Deposit: models.Payment{
			Amount:        quote.Deposit,
			ProcessingFee: quote.Fee,
			Method:        models.PaymentMethodGateway,
			GatewayRef:    &ref,
			PaidAt:        uc.now().UTC(),
		},
	})
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotNoLongerAvailable) {
			uc.log.Info("reserve lost race",
				zap.String("date", in.Date),
				zap.String("time", in.Time),
				zap.String("intent_id", intent.ID),
			)
			uc.audit.Dispatch(audit.Event{
				ActorID:   in.Actor.UserID,
				ActorRole: string(in.Actor.Role),
				Action:    "booking_conflict",
				Entity:    "booking",
				Metadata:  map[string]any{"date": in.Date, "time": in.Time, "intent_id": intent.ID},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 7. After commit
	// --------------------------------------------------
	invalidate(uc.cache, ctx, b.BookingDate)

	uc.audit.Dispatch(audit.Event{
		ActorID:   in.Actor.UserID,
		ActorRole: string(in.Actor.Role),
		Action:    "booking_created",
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata: map[string]any{
			"stylist_id":    b.StylistID,
			"service_price": b.ServicePrice.String(),
			"intent_id":     intent.ID,
		},
	})

	notify(uc.notifier, cfg, notification.NewMessage(notification.EventBookingConfirmed, b, cfg.Location))

	return b, nil
}

// findPromo ignores unknown promo ids; whether a known promo applies is
// decided per candidate price.
func (uc *ReserveBooking) findPromo(ctx context.Context, id *uint) (*models.Promo, error) {
	if id == nil {
		return nil, nil
	}
	p, err := uc.repo.FindPromo(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}
