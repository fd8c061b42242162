// Package config defines the per-company reconciliation ruleset. One engine
// serves every company; variants live here, not in code branches.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/normalize"
)

// Ruleset is the top-level concilia.yaml configuration.
type Ruleset struct {
	Company    string           `yaml:"company"`
	Tolerances TolerancesConfig `yaml:"tolerances"`
	Channels   []Channel        `yaml:"channels"`
	Cash       CashConfig       `yaml:"cash"`
	Accounts   AccountsConfig   `yaml:"accounts"`
	Historical HistoricalCodes  `yaml:"historical_codes"`
}

// TolerancesConfig controls matching and composite detection.
type TolerancesConfig struct {
	DateDays  int       `yaml:"date_days"`
	Value     Tolerance `yaml:"value"`
	Composite Tolerance `yaml:"composite"`
}

// Tolerance is a decimal amount that serializes as a YAML scalar.
// yaml.v3 does not honor encoding.TextUnmarshaler, so decimal.Decimal
// needs this wrapper to round-trip.
type Tolerance struct {
	decimal.Decimal
}

func (t Tolerance) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *Tolerance) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("parsing tolerance %q: %w", node.Value, err)
	}
	t.Decimal = d
	return nil
}

// Channel maps a bank tag to its chart scope and settlement account.
type Channel struct {
	Name    string      `yaml:"name"`
	Scope   model.Scope `yaml:"scope"`
	Account int         `yaml:"account"`
}

// CashConfig identifies the cash channel. Cash payments settle against the
// cash account and may match statement entries regardless of direction.
type CashConfig struct {
	Channel       string `yaml:"channel"`
	Account       int    `yaml:"account"`
	Directionless bool   `yaml:"directionless"`
}

// AccountsConfig holds fixed output accounts.
type AccountsConfig struct {
	InterestFine int `yaml:"interest_fine"`
}

// HistoricalCodes are the transaction-type codes stamped on output rows.
type HistoricalCodes struct {
	BankPayment int `yaml:"bank_payment"`
	CashPayment int `yaml:"cash_payment"`
	Deposit     int `yaml:"deposit"`
	Fee         int `yaml:"fee"`
}

// Load reads a concilia.yaml file from disk.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset: %w", err)
	}
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing ruleset: %w", err)
	}
	return &rs, nil
}

// Save writes a Ruleset to a YAML file.
func Save(path string, rs *Ruleset) error {
	data, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("marshaling ruleset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing ruleset: %w", err)
	}
	return nil
}

// ChannelFor resolves a payment's bank/method tag to a configured channel.
// Matching is by normalized word containment: "PIX SICOOB 123" hits the
// SICOOB channel. Returns false when no channel name occurs in the tag.
func (rs *Ruleset) ChannelFor(tag string) (Channel, bool) {
	key := normalize.Key(tag)
	if key == "" {
		return Channel{}, false
	}
	if rs.IsCash(tag) {
		return Channel{Name: rs.Cash.Channel, Account: rs.Cash.Account}, true
	}
	for _, ch := range rs.Channels {
		name := normalize.Key(ch.Name)
		if name != "" && containsWord(key, name) {
			return ch, true
		}
	}
	return Channel{}, false
}

// ScopeFor returns the chart scope for a statement entry's bank tag.
func (rs *Ruleset) ScopeFor(tag string) (model.Scope, bool) {
	key := normalize.Key(tag)
	for _, ch := range rs.Channels {
		if normalize.Key(ch.Name) == key {
			return ch.Scope, true
		}
	}
	return "", false
}

// IsCash reports whether a payment tag denotes the cash channel.
func (rs *Ruleset) IsCash(tag string) bool {
	cash := normalize.Key(rs.Cash.Channel)
	return cash != "" && containsWord(normalize.Key(tag), cash)
}

// containsWord reports whether needle occurs in haystack on word boundaries.
// Both arguments must already be normalized keys.
func containsWord(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// Default returns a Ruleset mirroring the reference company configuration.
func Default(company string) *Ruleset {
	return &Ruleset{
		Company: company,
		Tolerances: TolerancesConfig{
			DateDays:  3,
			Value:     Tolerance{decimal.NewFromFloat(0.01)},
			Composite: Tolerance{decimal.NewFromFloat(0.01)},
		},
		Channels: []Channel{
			{Name: "SICOOB", Scope: "SICOOB", Account: 809},
			{Name: "BRADESCO", Scope: "BRADESCO", Account: 7},
			{Name: "SICREDI", Scope: "SICREDI", Account: 808},
		},
		Cash: CashConfig{
			Channel:       "CAIXA",
			Account:       5,
			Directionless: true,
		},
		Accounts: AccountsConfig{
			InterestFine: 168,
		},
		Historical: HistoricalCodes{
			BankPayment: 34,
			CashPayment: 1,
			Deposit:     2,
			Fee:         17,
		},
	}
}
