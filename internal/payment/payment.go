// Package payment collects booking deposits through an external gateway.
// Only gateway references are stored; card data never reaches this service.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type IntentStatus string

const (
	StatusSucceeded IntentStatus = "succeeded"
	StatusFailed    IntentStatus = "failed"
	StatusPending   IntentStatus = "pending"
)

type Intent struct {
	ID           string       `json:"id"`
	ClientSecret string       `json:"client_secret"`
	AmountCents  int64        `json:"amount_cents"`
	Currency     string       `json:"currency"`
	Status       IntentStatus `json:"status"`
}

type IntentRequest struct {
	AmountCents    int64
	Currency       string
	Description    string
	Email          string
	Metadata       map[string]string
	IdempotencyKey string
}

type Gateway interface {
	Name() string
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

var hundred = decimal.NewFromInt(100)

// Quote is what the customer is charged to secure a booking: the deposit
// plus a processing fee on top of it.
type Quote struct {
	Deposit    decimal.Decimal `json:"deposit"`
	Fee        decimal.Decimal `json:"processing_fee"`
	Total      decimal.Decimal `json:"total"`
	TotalCents int64           `json:"total_cents"`
}

func QuoteDeposit(deposit, feeRate decimal.Decimal) Quote {
	fee := deposit.Mul(feeRate).Round(2)
	total := deposit.Add(fee)
	return Quote{
		Deposit:    deposit,
		Fee:        fee,
		Total:      total,
		TotalCents: total.Mul(hundred).Round(0).IntPart(),
	}
}

func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
