package recon

import (
	"fmt"

	"github.com/concilia-dev/concilia/internal/chart"
	"github.com/concilia-dev/concilia/internal/config"
	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/normalize"
)

// Resolved is a classified item: the source record plus the account pair and
// historical code the generator will stamp on its ledger rows. Settlement is
// the bank or cash account the movement settles against.
type Resolved struct {
	Payment    *model.PaymentRecord
	Entry      *model.StatementEntry
	Debit      int
	Credit     int
	Historical int
	Settlement int
}

// Classifier resolves payments and statement entries to account pairs via
// the chart index. It never falls back to a default account: a miss becomes
// an UnclassifiedItem for the caller to fix out of band.
type Classifier struct {
	rules *config.Ruleset
	index *chart.Index
}

// NewClassifier creates a Classifier over a ruleset and chart index.
func NewClassifier(rules *config.Ruleset, index *chart.Index) *Classifier {
	return &Classifier{rules: rules, index: index}
}

// ClassifyPayment resolves a payment's counterparty in the supplier scope.
// The historical code is the cash-payment code for cash-channel payments and
// the bank-payment code otherwise; a fee-coded chart entry always settles
// against the bank account, never cash.
func (c *Classifier) ClassifyPayment(p *model.PaymentRecord) (Resolved, *model.UnclassifiedItem) {
	key := normalize.Key(p.Counterparty)

	entry, err := c.index.Resolve(key, model.ScopeSuppliers)
	if err != nil {
		return Resolved{}, &model.UnclassifiedItem{
			Payment: p,
			Key:     key,
			Scope:   model.ScopeSuppliers,
			Reason:  fmt.Sprintf("no supplier chart entry for %q", p.Counterparty),
		}
	}

	isCash := c.rules.IsCash(p.Channel)
	hist := c.rules.Historical.BankPayment
	if isCash {
		hist = c.rules.Historical.CashPayment
	}

	// An unknown channel is tolerated as long as nothing below needs its
	// settlement account: the chart can carry both sides on its own.
	ch, _ := c.rules.ChannelFor(p.Channel)
	settlement := ch.Account
	if fee := c.rules.Historical.Fee; fee != 0 && entry.Historical == fee {
		// Bank charges settle against the bank account regardless of channel.
		hist = fee
		settlement = c.bankAccountFor(p.Channel, ch)
	}

	credit := entry.Credit
	if credit == 0 {
		credit = settlement
	}
	if credit == 0 {
		return Resolved{}, &model.UnclassifiedItem{
			Payment: p,
			Key:     key,
			Scope:   model.ScopeSuppliers,
			Reason:  fmt.Sprintf("unknown channel %q and no credit account for %q", p.Channel, p.Counterparty),
		}
	}
	if settlement == 0 && p.Composite(c.rules.Tolerances.Composite.Decimal) {
		return Resolved{}, &model.UnclassifiedItem{
			Payment: p,
			Key:     key,
			Scope:   model.ScopeSuppliers,
			Reason:  fmt.Sprintf("unknown channel %q for the interest/fine leg of %q", p.Channel, p.Counterparty),
		}
	}

	return Resolved{
		Payment:    p,
		Debit:      entry.Debit,
		Credit:     credit,
		Historical: hist,
		Settlement: settlement,
	}, nil
}

// ClassifyEntry resolves a statement entry with no originating payment in
// the scope belonging to its bank tag. Outflows debit the resolved account
// and credit the bank; inflows debit the bank and credit the resolved
// account. The chart row's own historical code wins when present, else the
// default splits by direction (payment vs deposit).
func (c *Classifier) ClassifyEntry(e *model.StatementEntry) (Resolved, *model.UnclassifiedItem) {
	key := normalize.Key(e.Description)

	scope, ok := c.rules.ScopeFor(e.Channel)
	if !ok {
		return Resolved{}, &model.UnclassifiedItem{
			Entry:  e,
			Key:    key,
			Reason: fmt.Sprintf("no chart scope for channel %q", e.Channel),
		}
	}

	ch, _ := c.rules.ChannelFor(e.Channel)
	bankAccount := ch.Account

	entry, err := c.index.Resolve(key, scope)
	if err != nil {
		return Resolved{}, &model.UnclassifiedItem{
			Entry:  e,
			Key:    key,
			Scope:  scope,
			Reason: fmt.Sprintf("no chart entry for %q in scope %q", e.Description, scope),
		}
	}

	hist := entry.Historical
	if hist == 0 {
		if e.Outflow() {
			hist = c.rules.Historical.BankPayment
		} else {
			hist = c.rules.Historical.Deposit
		}
	}

	resolved := Resolved{Entry: e, Historical: hist, Settlement: bankAccount}
	if e.Outflow() {
		resolved.Debit = firstAccount(entry.Debit, entry.Credit)
		resolved.Credit = bankAccount
	} else {
		resolved.Debit = bankAccount
		resolved.Credit = firstAccount(entry.Credit, entry.Debit)
	}
	return resolved, nil
}

// bankAccountFor picks a bank settlement account for a fee-coded payment.
// Cash has no bank account, so the first configured channel stands in when
// the payment's own channel is cash.
func (c *Classifier) bankAccountFor(tag string, ch config.Channel) int {
	if !c.rules.IsCash(tag) {
		return ch.Account
	}
	if len(c.rules.Channels) > 0 {
		return c.rules.Channels[0].Account
	}
	return ch.Account
}

// firstAccount returns the first non-zero account code.
func firstAccount(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}
