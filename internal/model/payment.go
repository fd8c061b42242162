package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is one row of the accounts-payable ledger table.
type PaymentRecord struct {
	Counterparty string
	Invoice      string
	DueDate      time.Time
	Nominal      decimal.Decimal
	InterestFine decimal.Decimal // zero when absent
	Paid         decimal.Decimal
	Method       string
	PaymentDate  time.Time
	Channel      string // originating bank or cash tag, e.g. "SICOOB", "CAIXA"
}

// Composite reports whether the payment splits into principal and
// interest/fine legs: either an explicit interest value above eps, or the
// paid value drifting from nominal by more than eps.
func (p PaymentRecord) Composite(eps decimal.Decimal) bool {
	if p.InterestFine.Abs().GreaterThan(eps) {
		return true
	}
	return p.Paid.Sub(p.Nominal).Abs().GreaterThan(eps)
}

// Accessory is the interest/fine leg value: whatever was paid beyond nominal.
func (p PaymentRecord) Accessory() decimal.Decimal {
	return p.Paid.Sub(p.Nominal)
}
