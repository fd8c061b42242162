package chart

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/normalize"
)

// ErrMissingColumn marks a chart row with too few columns to be a definition.
var ErrMissingColumn = errors.New("missing required column")

const (
	numFields  = 4
	colKey     = 0
	colDebit   = 1
	colCredit  = 2
	colHist    = 3
	headerLine = "chave,conta_debito,conta_credito,cod_historico"
)

// Header is the expected CSV header for a chart table.
const Header = headerLine

// Load reads one scope's chart table from a CSV reader into the index.
// Rows whose key normalizes to empty are skipped and reported as warnings;
// blank configuration rows are common and harmless. A row with an
// unparsable account or code aborts the load — the chart is configuration,
// not data, and a broken chart should not half-apply.
func Load(ix *Index, scope model.Scope, r io.Reader) ([]model.RowIssue, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var warnings []model.RowIssue
	for i, rec := range records {
		rowNum := i + 1
		if rowNum == 1 && looksLikeHeader(rec) {
			continue
		}
		if len(rec) < numFields {
			return nil, fmt.Errorf("row %d: %w: expected %d columns, got %d", rowNum, ErrMissingColumn, numFields, len(rec))
		}

		key := normalize.Key(rec[colKey])
		if key == "" {
			warnings = append(warnings, model.RowIssue{
				Row:   rowNum,
				Field: "chave",
				Err:   fmt.Errorf("blank key, row skipped"),
			})
			continue
		}

		debit, err := parseAccount(rec[colDebit])
		if err != nil {
			return nil, fmt.Errorf("row %d: conta_debito: %w", rowNum, err)
		}
		credit, err := parseAccount(rec[colCredit])
		if err != nil {
			return nil, fmt.Errorf("row %d: conta_credito: %w", rowNum, err)
		}
		hist, err := parseAccount(rec[colHist])
		if err != nil {
			return nil, fmt.Errorf("row %d: cod_historico: %w", rowNum, err)
		}

		ix.Put(model.ChartEntry{
			Key:        key,
			Scope:      scope,
			Debit:      debit,
			Credit:     credit,
			Historical: hist,
		})
	}
	return warnings, nil
}

// parseAccount parses an optional integer cell; blank means unset.
func parseAccount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid account code %q", s)
	}
	return n, nil
}

func looksLikeHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := normalize.Key(rec[0])
	return first == "CHAVE" || first == "LANCAMENTOS" || first == "KEY"
}
