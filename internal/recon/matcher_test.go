package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concilia-dev/concilia/internal/config"
	"github.com/concilia-dev/concilia/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func payment(counterparty string, paid string, day int, channel string) model.PaymentRecord {
	return model.PaymentRecord{
		Counterparty: counterparty,
		Invoice:      "1",
		DueDate:      date(2025, 3, day),
		Nominal:      dec(paid),
		Paid:         dec(paid),
		PaymentDate:  date(2025, 3, day),
		Channel:      channel,
	}
}

func outflow(desc string, value string, day int, channel string) model.StatementEntry {
	return model.StatementEntry{
		Date:        date(2025, 3, day),
		Description: desc,
		Value:       dec(value).Neg(),
		Direction:   model.DirectionDebit,
		Channel:     channel,
	}
}

func inflow(desc string, value string, day int, channel string) model.StatementEntry {
	return model.StatementEntry{
		Date:        date(2025, 3, day),
		Description: desc,
		Value:       dec(value),
		Direction:   model.DirectionCredit,
		Channel:     channel,
	}
}

func TestMatchPayments_WithinTolerances(t *testing.T) {
	rules := config.Default("X")
	pays := []model.PaymentRecord{payment("ACME", "100.00", 3, "SICOOB")}
	entries := []model.StatementEntry{outflow("PAG ACME", "100.00", 5, "SICOOB")}

	res := MatchPayments(rules, pays, entries)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, 2, res.Matches[0].DayOffset)
	assert.True(t, res.Matches[0].ValueDelta.IsZero())
	assert.Empty(t, res.UnmatchedPayments)
	assert.Empty(t, res.UnmatchedEntries)
}

func TestMatchPayments_OutsideDateWindow(t *testing.T) {
	rules := config.Default("X")
	pays := []model.PaymentRecord{payment("ACME", "100.00", 3, "SICOOB")}
	entries := []model.StatementEntry{outflow("PAG ACME", "100.00", 10, "SICOOB")}

	res := MatchPayments(rules, pays, entries)
	assert.Empty(t, res.Matches)
	assert.Len(t, res.UnmatchedPayments, 1)
	assert.Len(t, res.UnmatchedEntries, 1)
}

func TestMatchPayments_ValueTolerance(t *testing.T) {
	rules := config.Default("X")
	pays := []model.PaymentRecord{payment("ACME", "100.00", 3, "SICOOB")}

	res := MatchPayments(rules, pays, []model.StatementEntry{outflow("A", "100.01", 3, "SICOOB")})
	require.Len(t, res.Matches, 1)
	assert.True(t, res.Matches[0].ValueDelta.Equal(dec("0.01")))

	res = MatchPayments(rules, pays, []model.StatementEntry{outflow("A", "100.02", 3, "SICOOB")})
	assert.Empty(t, res.Matches)
}

func TestMatchPayments_TieBreakByDateThenValueThenOrder(t *testing.T) {
	rules := config.Default("X")
	pays := []model.PaymentRecord{payment("ACME", "100.00", 5, "SICOOB")}
	entries := []model.StatementEntry{
		outflow("FAR", "100.00", 7, "SICOOB"),  // 2 days off
		outflow("NEAR", "100.01", 5, "SICOOB"), // same day, 1 cent off
		outflow("BEST", "100.00", 5, "SICOOB"), // same day, exact
		outflow("SAME", "100.00", 5, "SICOOB"), // identical to BEST, later order
	}

	res := MatchPayments(rules, pays, entries)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "BEST", res.Matches[0].Entry.Description)
}

func TestMatchPayments_OneToOne(t *testing.T) {
	rules := config.Default("X")
	pays := []model.PaymentRecord{
		payment("ACME", "100.00", 5, "SICOOB"),
		payment("BETA", "100.00", 5, "SICOOB"),
	}
	entries := []model.StatementEntry{outflow("ONLY", "100.00", 5, "SICOOB")}

	res := MatchPayments(rules, pays, entries)
	require.Len(t, res.Matches, 1)
	// First payment in input order wins the only candidate.
	assert.Equal(t, "ACME", res.Matches[0].Payment.Counterparty)
	require.Len(t, res.UnmatchedPayments, 1)
	assert.Equal(t, "BETA", res.UnmatchedPayments[0].Counterparty)
}

func TestMatchPayments_DirectionCompatibility(t *testing.T) {
	rules := config.Default("X")
	pays := []model.PaymentRecord{payment("ACME", "100.00", 5, "SICOOB")}
	entries := []model.StatementEntry{inflow("CREDIT", "100.00", 5, "SICOOB")}

	res := MatchPayments(rules, pays, entries)
	assert.Empty(t, res.Matches, "outgoing payment must not match an inflow")
}

func TestMatchPayments_CashIsDirectionless(t *testing.T) {
	rules := config.Default("X")
	pays := []model.PaymentRecord{payment("ACME", "100.00", 5, "CAIXA")}
	entries := []model.StatementEntry{inflow("CREDIT", "100.00", 5, "SICOOB")}

	res := MatchPayments(rules, pays, entries)
	assert.Len(t, res.Matches, 1)

	rules.Cash.Directionless = false
	res = MatchPayments(rules, pays, entries)
	assert.Empty(t, res.Matches)
}

func TestMatchPayments_ZeroValueEntriesNeverMatch(t *testing.T) {
	rules := config.Default("X")
	pays := []model.PaymentRecord{payment("ACME", "0.00", 5, "SICOOB")}
	entries := []model.StatementEntry{{
		Date:      date(2025, 3, 5),
		Value:     decimal.Zero,
		Direction: model.DirectionDebit,
		Channel:   "SICOOB",
	}}

	res := MatchPayments(rules, pays, entries)
	assert.Empty(t, res.Matches)
	assert.Len(t, res.UnmatchedEntries, 1)
}

func TestMatchPayments_DuplicatesFirstComeFirstServed(t *testing.T) {
	rules := config.Default("X")
	pays := []model.PaymentRecord{
		payment("ACME", "50.00", 5, "SICOOB"),
		payment("ACME", "50.00", 5, "SICOOB"),
	}
	entries := []model.StatementEntry{
		outflow("E1", "50.00", 5, "SICOOB"),
		outflow("E2", "50.00", 5, "SICOOB"),
	}

	res := MatchPayments(rules, pays, entries)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "E1", res.Matches[0].Entry.Description)
	assert.Equal(t, "E2", res.Matches[1].Entry.Description)
}
