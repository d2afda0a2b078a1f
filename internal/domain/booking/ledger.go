package booking

import (
	"github.com/shopspring/decimal"

	"github.com/Seimmet/dolcie-salon/internal/models"
)

// Balance keeps the two obligations apart: the deposit is owed on top of
// the service price, never deducted from it.
type Balance struct {
	ServicePrice  decimal.Decimal `json:"service_price"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	DepositPaid   decimal.Decimal `json:"deposit_paid"`
	ServicePaid   decimal.Decimal `json:"service_paid"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	AmountDue     decimal.Decimal `json:"amount_due"`
}

// ComputeBalance: AmountDue = ServicePrice + DepositAmount - sum(payments),
// floored at zero.
func ComputeBalance(b *models.Booking) Balance {
	bal := Balance{
		ServicePrice:  b.ServicePrice,
		DepositAmount: b.DepositAmount,
		DepositPaid:   decimal.Zero,
		ServicePaid:   decimal.Zero,
	}

	for _, p := range b.Payments {
		if p.IsDeposit {
			bal.DepositPaid = bal.DepositPaid.Add(p.Amount)
		} else {
			bal.ServicePaid = bal.ServicePaid.Add(p.Amount)
		}
	}

	bal.TotalPaid = bal.DepositPaid.Add(bal.ServicePaid)
	bal.AmountDue = b.ServicePrice.Add(b.DepositAmount).Sub(bal.TotalPaid)
	if bal.AmountDue.IsNegative() {
		bal.AmountDue = decimal.Zero
	}
	return bal
}
