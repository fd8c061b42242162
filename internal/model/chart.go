package model

// Scope names a lookup-table partition in the chart of accounts.
// The supplier table is one scope; each bank's own table is another,
// so the same text key can resolve differently per context.
type Scope string

// ScopeSuppliers is the scope searched for payment counterparties.
const ScopeSuppliers Scope = "suppliers"

// ChartEntry is one row of a chart-of-accounts lookup table.
type ChartEntry struct {
	Key        string // normalized counterparty name or statement description
	Scope      Scope
	Debit      int // 0 = not set
	Credit     int // 0 = not set
	Historical int // 0 = use the ruleset default for the operation
}
