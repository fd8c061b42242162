package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one standardized output row. Produced once by the entry
// generator and serialized verbatim; never mutated afterward.
type LedgerRow struct {
	Date       time.Time
	Debit      int // 0 = column left empty
	Credit     int // 0 = column left empty
	Value      decimal.Decimal
	Historical int
	Complement string // invoice + counterparty (or cleaned description)
	BatchStart bool   // true only on the first row of a logical group
}
