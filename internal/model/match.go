package model

import "github.com/shopspring/decimal"

// Match pairs one payment with one statement entry. Both sides participate
// in at most one Match; the matcher never reuses a consumed record.
type Match struct {
	Payment    *PaymentRecord
	Entry      *StatementEntry
	DayOffset  int             // |statement date - payment date| in days
	ValueDelta decimal.Decimal // |statement value - paid value|
}
