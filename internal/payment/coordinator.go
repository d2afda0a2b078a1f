package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
)

// Coordinator bounds every gateway call by a timeout and folds gateway
// failures into the payment error codes.
type Coordinator struct {
	gateway Gateway
	timeout time.Duration
	log     *zap.Logger
}

func NewCoordinator(gateway Gateway, timeout time.Duration, log *zap.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		gateway: gateway,
		timeout: timeout,
		log:     log.With(zap.String("gateway", gateway.Name())),
	}
}

type Purpose struct {
	Email       string
	Description string
	Metadata    map[string]string
}

// CreateDepositIntent asks the gateway for an intent charging quote.Total.
func (c *Coordinator) CreateDepositIntent(
	ctx context.Context,
	quote Quote,
	currency string,
	p Purpose,
) (*Intent, error) {

	meta := map[string]string{"purpose": "deposit"}
	for k, v := range p.Metadata {
		meta[k] = v
	}

	return c.call(ctx, "create_intent", func(ctx context.Context) (*Intent, error) {
		return c.gateway.CreateIntent(ctx, IntentRequest{
			AmountCents:    quote.TotalCents,
			Currency:       currency,
			Description:    p.Description,
			Email:          p.Email,
			Metadata:       meta,
			IdempotencyKey: uuid.NewString(),
		})
	})
}

// Confirm reads the intent's current status from the gateway.
func (c *Coordinator) Confirm(ctx context.Context, intentID string) (*Intent, error) {
	if intentID == "" {
		return nil, httperr.ErrPaymentNotConfirmed
	}
	return c.call(ctx, "get_intent", func(ctx context.Context) (*Intent, error) {
		return c.gateway.GetIntent(ctx, intentID)
	})
}

// RequireConfirmed fails with payment_not_confirmed unless the intent has
// succeeded for at least minCents.
func (c *Coordinator) RequireConfirmed(ctx context.Context, intentID string, minCents int64) (*Intent, error) {
	in, err := c.Confirm(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if in.Status != StatusSucceeded || in.AmountCents < minCents {
		c.log.Info("intent not confirmed",
			zap.String("intent_id", intentID),
			zap.String("status", string(in.Status)),
			zap.Int64("amount_cents", in.AmountCents),
			zap.Int64("required_cents", minCents),
		)
		return nil, httperr.ErrPaymentNotConfirmed
	}
	return in, nil
}

func (c *Coordinator) call(
	ctx context.Context,
	op string,
	fn func(ctx context.Context) (*Intent, error),
) (*Intent, error) {

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type result struct {
		in  *Intent
		err error
	}
	ch := make(chan result, 1)

	go func() {
		in, err := fn(cctx)
		ch <- result{in: in, err: err}
	}()

	select {
	case r := <-ch:
		if r.err == nil {
			return r.in, nil
		}
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			c.log.Warn("gateway timeout", zap.String("op", op))
			return nil, httperr.ErrPaymentTimeout
		}
		c.log.Warn("gateway error", zap.String("op", op), zap.Error(r.err))
		return nil, httperr.PaymentFailed{Err: r.err}

	case <-cctx.Done():
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			c.log.Warn("gateway timeout", zap.String("op", op))
			return nil, httperr.ErrPaymentTimeout
		}
		return nil, cctx.Err()
	}
}
