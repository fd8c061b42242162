package recon

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/concilia-dev/concilia/internal/chart"
	"github.com/concilia-dev/concilia/internal/config"
	"github.com/concilia-dev/concilia/internal/model"
)

// Inputs are the fully materialized tables a run operates on, plus the
// row-level issues their loaders collected.
type Inputs struct {
	Payments    []model.PaymentRecord
	Entries     []model.StatementEntry
	ParseIssues []model.RowIssue
	Warnings    []model.RowIssue
}

// Run executes one synchronous reconciliation batch: match, classify,
// generate, aggregate. Every run is independent; nothing is shared or
// retained between invocations, so concurrent runs need only separate
// Inputs and Index values.
func Run(rules *config.Ruleset, index *chart.Index, in Inputs) *Report {
	report := &Report{
		RunID:           uuid.NewString(),
		Company:         rules.Company,
		TotalPayments:   len(in.Payments),
		TotalEntries:    len(in.Entries),
		TotalReconciled: decimal.Zero,
		ParseIssues:     in.ParseIssues,
		Warnings:        in.Warnings,
	}

	log := logrus.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"company":  rules.Company,
		"payments": len(in.Payments),
		"entries":  len(in.Entries),
	})
	log.Info("reconciliation started")

	matched := MatchPayments(rules, in.Payments, in.Entries)
	report.Matches = matched.Matches
	report.Unmatched = matched.UnmatchedPayments
	report.MatchedCount = len(matched.Matches)
	report.UnmatchedPayments = len(matched.UnmatchedPayments)
	for _, m := range matched.Matches {
		report.TotalReconciled = report.TotalReconciled.Add(m.Payment.Paid)
	}
	if report.TotalPayments > 0 {
		report.MatchRate = float64(report.MatchedCount) / float64(report.TotalPayments)
	}

	classifier := NewClassifier(rules, index)
	generator := NewGenerator(rules)

	// Ledger priority: every payment produces rows from the payment table,
	// matched or not. Processing stays in input order so reruns are
	// byte-identical.
	for i := range in.Payments {
		p := &in.Payments[i]
		resolved, unclassified := classifier.ClassifyPayment(p)
		if unclassified != nil {
			report.Unclassified = append(report.Unclassified, *unclassified)
			continue
		}
		report.Rows = append(report.Rows, generator.Generate(resolved)...)
	}

	// Statement movements nobody claimed are classified directly from their
	// bank scope. Zero-value lines are informational only.
	for _, e := range matched.UnmatchedEntries {
		if e.Value.IsZero() {
			report.InformationalRows++
			continue
		}
		report.Leftover = append(report.Leftover, e)
		resolved, unclassified := classifier.ClassifyEntry(e)
		if unclassified != nil {
			report.Unclassified = append(report.Unclassified, *unclassified)
			continue
		}
		report.Rows = append(report.Rows, generator.Generate(resolved)...)
	}
	report.UnmatchedEntries = len(report.Leftover)

	log.WithFields(logrus.Fields{
		"matched":      report.MatchedCount,
		"match_rate":   report.MatchRate,
		"rows":         len(report.Rows),
		"unclassified": len(report.Unclassified),
	}).Info("reconciliation finished")

	return report
}
