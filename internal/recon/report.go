package recon

import (
	"github.com/shopspring/decimal"

	"github.com/concilia-dev/concilia/internal/model"
)

// Report aggregates one reconciliation run for the presentation layer.
// All intermediate objects referenced here belong to the run and are
// discarded together with it.
type Report struct {
	RunID   string
	Company string

	MatchedCount      int
	UnmatchedPayments int
	UnmatchedEntries  int
	TotalPayments     int
	TotalEntries      int
	InformationalRows int // zero-value statement lines, excluded from matching

	TotalReconciled decimal.Decimal // sum of matched payments' paid values
	MatchRate       float64         // matched / total payments

	Rows         []model.LedgerRow
	Matches      []model.Match
	Unmatched    []*model.PaymentRecord
	Leftover     []*model.StatementEntry
	Unclassified []model.UnclassifiedItem
	ParseIssues  []model.RowIssue
	Warnings     []model.RowIssue
}

// OK reports whether the run may emit its CSV: every item classified.
func (r *Report) OK() bool {
	return len(r.Unclassified) == 0
}
