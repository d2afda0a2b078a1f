package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
)

// MercadoPagoGateway charges deposits as PIX payments. The QR code payload
// plays the role of the client secret.
type MercadoPagoGateway struct {
	client mppayment.Client
}

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, err
	}
	return &MercadoPagoGateway{client: mppayment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) Name() string { return "mercadopago" }

func (g *MercadoPagoGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	amount, _ := FromCents(req.AmountCents).Float64()

	request := mppayment.Request{
		TransactionAmount: amount,
		Description:       req.Description,
		PaymentMethodID:   "pix",
		ExternalReference: req.IdempotencyKey,
		Metadata:          toAnyMap(req.Metadata),
		Payer: &mppayment.PayerRequest{
			Email: req.Email,
		},
	}

	resp, err := g.client.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	in := fromMercadoPago(resp, req.Currency)
	in.ClientSecret = resp.PointOfInteraction.TransactionData.QRCode
	return in, nil
}

func (g *MercadoPagoGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	paymentID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: invalid payment id %q", id)
	}

	resp, err := g.client.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return fromMercadoPago(resp, ""), nil
}

func fromMercadoPago(resp *mppayment.Response, currency string) *Intent {
	if resp.CurrencyID != "" {
		currency = resp.CurrencyID
	}
	return &Intent{
		ID:          strconv.Itoa(resp.ID),
		AmountCents: int64(resp.TransactionAmount*100 + 0.5),
		Currency:    currency,
		Status:      mercadoPagoStatus(resp.Status),
	}
}

func mercadoPagoStatus(s string) IntentStatus {
	switch s {
	case "approved":
		return StatusSucceeded
	case "rejected", "cancelled", "refunded", "charged_back":
		return StatusFailed
	}
	return StatusPending
}

func toAnyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
