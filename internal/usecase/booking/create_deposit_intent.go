package booking

import (
	"context"
	"fmt"

	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/payment"
)

type CreateDepositIntentInput struct {
	StyleID     uint
	VariationID uint
	StylistID   *uint
	Date        string
	Time        string
	Email       string
}

type CreateDepositIntentOutput struct {
	Intent *payment.Intent `json:"intent"`
	Quote  payment.Quote   `json:"quote"`
}

// CreateDepositIntent opens a gateway intent for the deposit. The slot is
// checked first so customers are not charged for a slot already gone, but
// nothing is held: only a persisted booking consumes a slot.
type CreateDepositIntent struct {
	settings SettingsLoader
	engine   *availability.Engine
	payments *payment.Coordinator
}

func NewCreateDepositIntent(
	settings SettingsLoader,
	engine *availability.Engine,
	payments *payment.Coordinator,
) *CreateDepositIntent {
	return &CreateDepositIntent{
		settings: settings,
		engine:   engine,
		payments: payments,
	}
}

func (uc *CreateDepositIntent) Execute(
	ctx context.Context,
	in CreateDepositIntentInput,
) (*CreateDepositIntentOutput, error) {

	if in.StyleID == 0 || in.VariationID == 0 || in.Date == "" || in.Time == "" {
		return nil, httperr.ErrInvalidRequest
	}

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

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

	quote := payment.QuoteDeposit(cfg.Deposit, cfg.FeeRate)

	intent, err := uc.payments.CreateDepositIntent(ctx, quote, cfg.Currency, payment.Purpose{
		Email:       in.Email,
		Description: fmt.Sprintf("%s booking deposit %s %s", cfg.Name, in.Date, in.Time),
		Metadata: map[string]string{
			"style_id":     fmt.Sprint(in.StyleID),
			"variation_id": fmt.Sprint(in.VariationID),
			"date":         in.Date,
			"time":         in.Time,
		},
	})
	if err != nil {
		return nil, err
	}

	return &CreateDepositIntentOutput{Intent: intent, Quote: quote}, nil
}
