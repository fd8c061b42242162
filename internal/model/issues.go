package model

import "fmt"

// RowIssue records a row-level parse failure or warning. Loaders isolate
// failures per row and collect them instead of aborting the batch.
type RowIssue struct {
	Row   int // 1-based source row number
	Field string
	Err   error
}

func (i RowIssue) Error() string {
	if i.Field == "" {
		return fmt.Sprintf("row %d: %v", i.Row, i.Err)
	}
	return fmt.Sprintf("row %d: %s: %v", i.Row, i.Field, i.Err)
}

func (i RowIssue) Unwrap() error { return i.Err }

// UnclassifiedItem is a payment or statement entry whose normalized key
// resolved to no chart entry. Surfaced to the caller for chart correction
// and a re-run; never auto-resolved.
type UnclassifiedItem struct {
	Payment *PaymentRecord  // nil when the item is a statement entry
	Entry   *StatementEntry // nil when the item is a payment
	Key     string          // the normalized key that missed
	Scope   Scope
	Reason  string
}
