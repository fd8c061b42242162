// Package recon is the reconciliation core: it pairs payments with bank
// statement movements, classifies each resolved item against the chart of
// accounts and generates standardized ledger rows.
package recon

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/concilia-dev/concilia/internal/config"
	"github.com/concilia-dev/concilia/internal/model"
)

// MatchResult is the matcher's output: a one-to-one partial assignment plus
// both leftovers. Unmatched payments are not discarded — ledger priority
// means they can still produce rows from the payment table alone.
type MatchResult struct {
	Matches           []model.Match
	UnmatchedPayments []*model.PaymentRecord
	UnmatchedEntries  []*model.StatementEntry
}

// lowMatchRate is the reconciliation quality floor below which a warning is
// logged; production runs are expected above 95%.
const lowMatchRate = 0.85

// MatchPayments assigns payments to statement entries greedily, in payment
// input order. A candidate entry must be unconsumed, non-zero, direction
// compatible, within the date window and within the value tolerance. Ties
// break by smallest day offset, then smallest value delta, then statement
// input order, so identical inputs always produce identical assignments.
// Zero-value entries are informational (balance-carry lines) and never match.
func MatchPayments(rules *config.Ruleset, pays []model.PaymentRecord, entries []model.StatementEntry) MatchResult {
	consumed := make([]bool, len(entries))

	var res MatchResult
	for i := range pays {
		p := &pays[i]
		best := -1
		bestDays := 0
		bestDelta := decimal.Zero

		requireOutflow := !(rules.Cash.Directionless && rules.IsCash(p.Channel))

		for j := range entries {
			e := &entries[j]
			if consumed[j] || e.Value.IsZero() {
				continue
			}
			if requireOutflow && !e.Outflow() {
				continue
			}
			days := daysBetween(e.Date, p.PaymentDate)
			if days > rules.Tolerances.DateDays {
				continue
			}
			delta := e.Abs().Sub(p.Paid).Abs()
			if delta.GreaterThan(rules.Tolerances.Value.Decimal) {
				continue
			}
			if best == -1 || days < bestDays || (days == bestDays && delta.LessThan(bestDelta)) {
				best, bestDays, bestDelta = j, days, delta
			}
		}

		if best == -1 {
			res.UnmatchedPayments = append(res.UnmatchedPayments, p)
			continue
		}
		consumed[best] = true
		res.Matches = append(res.Matches, model.Match{
			Payment:    p,
			Entry:      &entries[best],
			DayOffset:  bestDays,
			ValueDelta: bestDelta,
		})
	}

	for j := range entries {
		if !consumed[j] {
			res.UnmatchedEntries = append(res.UnmatchedEntries, &entries[j])
		}
	}

	rate := 1.0
	if len(pays) > 0 {
		rate = float64(len(res.Matches)) / float64(len(pays))
	}
	log := logrus.WithFields(logrus.Fields{
		"payments":  len(pays),
		"entries":   len(entries),
		"matches":   len(res.Matches),
		"unmatched": len(res.UnmatchedPayments),
	})
	if rate < lowMatchRate && len(pays) > 0 {
		log.Warnf("low match rate: %.1f%%", rate*100)
	} else {
		log.Debug("matching complete")
	}

	return res
}

// daysBetween returns the absolute whole-day distance between two dates,
// ignoring time-of-day.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	d := int(ad.Sub(bd).Hours() / 24)
	if d < 0 {
		d = -d
	}
	return d
}
