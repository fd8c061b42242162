package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the movement marker carried by a statement value.
type Direction string

const (
	DirectionCredit Direction = "C" // inflow
	DirectionDebit  Direction = "D" // outflow
)

// StatementEntry is one movement parsed from a bank extract.
// Value is signed: positive = credit/inflow, negative = debit/outflow.
// Direction is the marker as parsed from the source; loaders guarantee it
// agrees with the sign of Value.
type StatementEntry struct {
	Date        time.Time
	Description string
	Value       decimal.Decimal
	Direction   Direction
	Channel     string // bank tag of the sheet the entry came from
}

// Outflow reports whether the entry is a debit movement.
func (e StatementEntry) Outflow() bool { return e.Direction == DirectionDebit }

// Abs returns the unsigned movement value.
func (e StatementEntry) Abs() decimal.Decimal { return e.Value.Abs() }
