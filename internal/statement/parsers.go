package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/normalize"
)

// ErrMissingColumn marks a statement row with too few columns.
var ErrMissingColumn = errors.New("missing required column")

const (
	numFields = 3
	colDate   = 0
	colDesc   = 1
	colValue  = 2
)

// Header is the expected CSV header for a statement table.
const Header = "data,historico,valor"

// valueParser turns one raw value cell into (unsigned magnitude, direction).
type valueParser func(cell string) (decimal.Decimal, model.Direction, error)

// SignedParser parses extracts whose value column carries an explicit sign:
// negative = debit/outflow, positive = credit/inflow. A C/D suffix in this
// format is a malformed cell, not a direction hint.
type SignedParser struct{}

// Format returns the parser name.
func (p *SignedParser) Format() string { return "signed" }

// Parse reads a signed-value extract.
func (p *SignedParser) Parse(channel string, r io.Reader) ([]model.StatementEntry, []model.RowIssue, error) {
	return parseRows(channel, r, parseSignedValue)
}

func parseSignedValue(cell string) (decimal.Decimal, model.Direction, error) {
	s := strings.TrimSpace(cell)
	if s != "" {
		switch s[len(s)-1] {
		case 'C', 'c', 'D', 'd':
			return decimal.Zero, "", fmt.Errorf("%w: unexpected %c suffix in signed format", normalize.ErrMalformedAmount, s[len(s)-1])
		}
	}
	return normalize.ParseAmountDirection(s)
}

// SuffixParser parses extracts whose value column ends in a C (credit) or
// D (debit) marker, the common Brazilian bank export form. The marker must
// agree with any explicit sign; disagreement is a parse failure.
type SuffixParser struct{}

// Format returns the parser name.
func (p *SuffixParser) Format() string { return "cdsuffix" }

// Parse reads a C/D-suffixed extract. Cells without a marker fall back to
// their sign, matching what the banks actually export on balance lines.
func (p *SuffixParser) Parse(channel string, r io.Reader) ([]model.StatementEntry, []model.RowIssue, error) {
	return parseRows(channel, r, normalize.ParseAmountDirection)
}

func parseRows(channel string, r io.Reader, parseValue valueParser) ([]model.StatementEntry, []model.RowIssue, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	var (
		out    []model.StatementEntry
		issues []model.RowIssue
	)
	for i, rec := range records {
		rowNum := i + 1
		if rowNum == 1 && looksLikeHeader(rec) {
			continue
		}
		if blankRow(rec) {
			continue
		}
		if len(rec) < numFields {
			issues = append(issues, model.RowIssue{
				Row: rowNum,
				Err: fmt.Errorf("%w: expected %d columns, got %d", ErrMissingColumn, numFields, len(rec)),
			})
			continue
		}

		date, err := normalize.ParseDate(rec[colDate])
		if err != nil {
			issues = append(issues, model.RowIssue{Row: rowNum, Field: "data", Err: err})
			continue
		}
		abs, dir, err := parseValue(rec[colValue])
		if err != nil {
			issues = append(issues, model.RowIssue{Row: rowNum, Field: "valor", Err: err})
			continue
		}

		value := abs
		if dir == model.DirectionDebit {
			value = abs.Neg()
		}
		out = append(out, model.StatementEntry{
			Date:        date,
			Description: strings.TrimSpace(rec[colDesc]),
			Value:       value,
			Direction:   dir,
			Channel:     channel,
		})
	}
	return out, issues, nil
}

func blankRow(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func looksLikeHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := normalize.Key(rec[0])
	return first == "DATA" || first == "DATE"
}
