package recon

import (
	"strings"

	"github.com/concilia-dev/concilia/internal/config"
	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/normalize"
)

// Generator turns resolved items into ledger rows: one row for simple
// payments and statement entries, two rows for composite payments (principal
// plus interest/fine leg).
type Generator struct {
	rules *config.Ruleset
}

// NewGenerator creates a Generator over a ruleset.
func NewGenerator(rules *config.Ruleset) *Generator {
	return &Generator{rules: rules}
}

// Generate emits the rows for one resolved item. Composite pairs share date
// and complement; only the first row of the pair starts a batch.
func (g *Generator) Generate(res Resolved) []model.LedgerRow {
	if res.Payment != nil {
		return g.paymentRows(res)
	}
	return g.entryRows(res)
}

func (g *Generator) paymentRows(res Resolved) []model.LedgerRow {
	p := res.Payment
	complement := paymentComplement(p)

	if !p.Composite(g.rules.Tolerances.Composite.Decimal) {
		return []model.LedgerRow{{
			Date:       p.PaymentDate,
			Debit:      res.Debit,
			Credit:     res.Credit,
			Value:      p.Paid,
			Historical: res.Historical,
			Complement: complement,
			BatchStart: true,
		}}
	}

	principal := model.LedgerRow{
		Date:       p.PaymentDate,
		Debit:      res.Debit,
		Credit:     res.Credit,
		Value:      p.Nominal,
		Historical: res.Historical,
		Complement: complement,
		BatchStart: true,
	}

	// Accessory leg: interest/fines go against the fixed interest account;
	// a negative difference (discount obtained) mirrors the leg.
	diff := p.Accessory()
	accessory := model.LedgerRow{
		Date:       p.PaymentDate,
		Value:      diff.Abs(),
		Historical: g.rules.Historical.Fee,
		Complement: complement,
		BatchStart: false,
	}
	if diff.IsNegative() {
		accessory.Debit = res.Settlement
		accessory.Credit = g.rules.Accounts.InterestFine
	} else {
		accessory.Debit = g.rules.Accounts.InterestFine
		accessory.Credit = res.Settlement
	}

	return []model.LedgerRow{principal, accessory}
}

func (g *Generator) entryRows(res Resolved) []model.LedgerRow {
	e := res.Entry
	return []model.LedgerRow{{
		Date:       e.Date,
		Debit:      res.Debit,
		Credit:     res.Credit,
		Value:      e.Abs(),
		Historical: res.Historical,
		Complement: normalize.Complement(e.Description),
		BatchStart: true,
	}}
}

// paymentComplement builds "invoice counterparty", dropping whichever part
// is blank, then cleans it for the accounting import.
func paymentComplement(p *model.PaymentRecord) string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(p.Invoice); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(p.Counterparty); s != "" {
		parts = append(parts, s)
	}
	return normalize.Complement(strings.Join(parts, " "))
}
