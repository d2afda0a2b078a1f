package booking

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/metrics"
	"github.com/Seimmet/dolcie-salon/internal/models"
	"github.com/Seimmet/dolcie-salon/internal/payment"
	"github.com/Seimmet/dolcie-salon/internal/timezone"
)

type AddPaymentInput struct {
	Actor      domain.Actor
	BookingID  uint
	Amount     decimal.Decimal
	Method     string
	GatewayRef string
}

// AddPayment appends a payment to the ledger without touching status.
// Gateway payments are verified against the gateway; cash is recorded by
// staff at the desk.
type AddPayment struct {
	repo     domain.Repository
	payments *payment.Coordinator
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	now      timezone.Clock
}

func NewAddPayment(
	repo domain.Repository,
	payments *payment.Coordinator,
	auditDispatcher *audit.Dispatcher,
	m *metrics.Metrics,
	now timezone.Clock,
) *AddPayment {
	if now == nil {
		now = timezone.SystemClock
	}
	return &AddPayment{
		repo:     repo,
		payments: payments,
		audit:    auditDispatcher,
		metrics:  m,
		now:      now,
	}
}

func (uc *AddPayment) Execute(
	ctx context.Context,
	in AddPaymentInput,
) (*models.Booking, error) {

	in.Method = strings.ToLower(strings.TrimSpace(in.Method))
	in.GatewayRef = strings.TrimSpace(in.GatewayRef)

	if in.BookingID == 0 || !in.Amount.IsPositive() {
		return nil, httperr.ErrInvalidRequest
	}
	if in.Method != models.PaymentMethodCash && in.Method != models.PaymentMethodGateway {
		return nil, httperr.ErrInvalidRequest
	}

	current, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := domain.CanView(in.Actor, current); err != nil {
		return nil, err
	}

	p := &models.Payment{
		Amount:        in.Amount.Round(2),
		ProcessingFee: decimal.Zero,
		Method:        in.Method,
		PaidAt:        uc.now().UTC(),
	}

	switch in.Method {
	case models.PaymentMethodCash:
		if in.Actor.Role != domain.RoleAdmin && in.Actor.Role != domain.RoleStylist {
			return nil, httperr.ErrForbidden
		}

	case models.PaymentMethodGateway:
		if in.GatewayRef == "" {
			return nil, httperr.ErrInvalidRequest
		}
		if _, err := uc.payments.RequireConfirmed(ctx, in.GatewayRef, payment.ToCents(p.Amount)); err != nil {
			uc.metrics.PaymentChecks.WithLabelValues(httperr.Code(err)).Inc()
			return nil, err
		}
		uc.metrics.PaymentChecks.WithLabelValues("confirmed").Inc()
		ref := in.GatewayRef
		p.GatewayRef = &ref
	}

	updated, err := uc.repo.AddPayment(ctx, in.BookingID, p)
	if err != nil {
		return nil, notFound(err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   in.Actor.UserID,
		ActorRole: string(in.Actor.Role),
		Action:    "payment_added",
		Entity:    "booking",
		EntityID:  &updated.ID,
		Metadata: map[string]string{
			"amount": p.Amount.String(),
			"method": p.Method,
		},
	})

	return updated, nil
}
