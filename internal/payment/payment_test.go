package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
)

func TestQuoteDeposit(t *testing.T) {
	q := QuoteDeposit(decimal.NewFromInt(50), decimal.RequireFromString("0.035"))

	assert.True(t, q.Fee.Equal(decimal.RequireFromString("1.75")), q.Fee.String())
	assert.True(t, q.Total.Equal(decimal.RequireFromString("51.75")))
	assert.Equal(t, int64(5175), q.TotalCents)

	q = QuoteDeposit(decimal.RequireFromString("33.33"), decimal.RequireFromString("0.035"))
	// 1.16655 rounds to 1.17
	assert.True(t, q.Fee.Equal(decimal.RequireFromString("1.17")), q.Fee.String())
	assert.Equal(t, int64(3450), q.TotalCents)

	q = QuoteDeposit(decimal.NewFromInt(50), decimal.Zero)
	assert.Equal(t, int64(5000), q.TotalCents)
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(15050), ToCents(decimal.RequireFromString("150.50")))
	assert.True(t, FromCents(5175).Equal(decimal.RequireFromString("51.75")))
}

type stubGateway struct {
	intent *Intent
	err    error
	delay  time.Duration
	seen   IntentRequest
}

func (s *stubGateway) Name() string { return "stub" }

func (s *stubGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	s.seen = req
	return s.wait(ctx)
}

func (s *stubGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	return s.wait(ctx)
}

func (s *stubGateway) wait(ctx context.Context) (*Intent, error) {
	if s.delay > 0 {
		// ignores ctx on purpose: the coordinator must not hang anyway
		time.Sleep(s.delay)
	}
	return s.intent, s.err
}

func TestCreateDepositIntentCarriesQuoteAndMetadata(t *testing.T) {
	gw := &stubGateway{intent: &Intent{ID: "pi_1", ClientSecret: "cs"}}
	c := NewCoordinator(gw, time.Second, nil)

	q := QuoteDeposit(decimal.NewFromInt(50), decimal.RequireFromString("0.035"))
	in, err := c.CreateDepositIntent(context.Background(), q, "usd", Purpose{
		Email:    "ada@example.com",
		Metadata: map[string]string{"style_id": "1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_1", in.ID)
	assert.Equal(t, int64(5175), gw.seen.AmountCents)
	assert.Equal(t, "deposit", gw.seen.Metadata["purpose"])
	assert.Equal(t, "1", gw.seen.Metadata["style_id"])
	assert.NotEmpty(t, gw.seen.IdempotencyKey)
}

func TestRequireConfirmed(t *testing.T) {
	ctx := context.Background()

	gw := &stubGateway{intent: &Intent{ID: "pi_1", Status: StatusSucceeded, AmountCents: 5175}}
	c := NewCoordinator(gw, time.Second, nil)

	_, err := c.RequireConfirmed(ctx, "pi_1", 5175)
	assert.NoError(t, err)

	_, err = c.RequireConfirmed(ctx, "pi_1", 6000)
	assert.True(t, httperr.IsBusiness(err, httperr.CodePaymentNotConfirmed), "underpaid")

	gw.intent.Status = StatusPending
	_, err = c.RequireConfirmed(ctx, "pi_1", 5175)
	assert.True(t, httperr.IsBusiness(err, httperr.CodePaymentNotConfirmed))

	_, err = c.RequireConfirmed(ctx, "", 5175)
	assert.True(t, httperr.IsBusiness(err, httperr.CodePaymentNotConfirmed))
}

func TestGatewayErrorIsPaymentFailed(t *testing.T) {
	cause := errors.New("card_declined")
	c := NewCoordinator(&stubGateway{err: cause}, time.Second, nil)

	_, err := c.Confirm(context.Background(), "pi_1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodePaymentFailed))
	assert.ErrorIs(t, err, cause)
}

func TestGatewayTimeoutIsBounded(t *testing.T) {
	gw := &stubGateway{intent: &Intent{}, delay: 500 * time.Millisecond}
	c := NewCoordinator(gw, 20*time.Millisecond, nil)

	started := time.Now()
	_, err := c.Confirm(context.Background(), "pi_1")

	assert.True(t, httperr.IsBusiness(err, httperr.CodePaymentTimeout))
	assert.Less(t, time.Since(started), 400*time.Millisecond)
}

func TestMemoryGateway(t *testing.T) {
	ctx := context.Background()
	gw := NewMemoryGateway()
	c := NewCoordinator(gw, time.Second, nil)

	in, err := c.CreateDepositIntent(ctx, QuoteDeposit(decimal.NewFromInt(50), decimal.Zero), "usd", Purpose{})
	require.NoError(t, err)

	_, err = c.RequireConfirmed(ctx, in.ID, 5000)
	assert.Error(t, err)

	gw.Settle(in.ID)
	got, err := c.RequireConfirmed(ctx, in.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)

	gw.Decline(in.ID)
	_, err = c.RequireConfirmed(ctx, in.ID, 5000)
	assert.Error(t, err)

	_, err = c.Confirm(ctx, "pi_missing")
	assert.True(t, httperr.IsBusiness(err, httperr.CodePaymentFailed))
}

func TestGatewayStatusMapping(t *testing.T) {
	assert.Equal(t, StatusSucceeded, mercadoPagoStatus("approved"))
	assert.Equal(t, StatusFailed, mercadoPagoStatus("rejected"))
	assert.Equal(t, StatusPending, mercadoPagoStatus("in_process"))
	assert.Equal(t, StatusSucceeded, stripeStatus("succeeded"))
	assert.Equal(t, StatusFailed, stripeStatus("canceled"))
	assert.Equal(t, StatusPending, stripeStatus("requires_payment_method"))
}

func TestNewGateway(t *testing.T) {
	gw, err := NewGateway("memory", GatewayKeys{})
	require.NoError(t, err)
	assert.Equal(t, "memory", gw.Name())

	gw, err = NewGateway("stripe", GatewayKeys{StripeSecretKey: "sk_test_123"})
	require.NoError(t, err)
	assert.Equal(t, "stripe", gw.Name())

	_, err = NewGateway("stripe", GatewayKeys{})
	assert.Error(t, err)

	_, err = NewGateway("paypal", GatewayKeys{})
	assert.Error(t, err)
}
