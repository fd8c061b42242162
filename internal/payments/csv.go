// Package payments loads the accounts-payable ledger table into typed
// payment records.
package payments

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

// ErrMissingColumn marks a payment row with too few columns.
var ErrMissingColumn = errors.New("missing required column")

// Header is the expected CSV header for the payment ledger table.
const Header = "fornecedor,nf,vencimento,valor_original,juros_multas,valor_pago,forma_pagamento,data_pagamento,banco"

const (
	numFields   = 9
	colCparty   = 0
	colInvoice  = 1
	colDue      = 2
	colNominal  = 3
	colInterest = 4
	colPaid     = 5
	colMethod   = 6
	colPaidDate = 7
	colChannel  = 8
)

// Load reads the payment ledger from a CSV reader. Rows failing to parse a
// required field are excluded and reported as issues rather than aborting
// the load; blank trailer rows are skipped silently.
func Load(r io.Reader) ([]model.PaymentRecord, []model.RowIssue, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading payment CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	var (
		out    []model.PaymentRecord
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

		p, issue := parseRow(rowNum, rec)
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		out = append(out, p)
	}
	return out, issues, nil
}

func parseRow(rowNum int, rec []string) (model.PaymentRecord, *model.RowIssue) {
	fail := func(field string, err error) (model.PaymentRecord, *model.RowIssue) {
		return model.PaymentRecord{}, &model.RowIssue{Row: rowNum, Field: field, Err: err}
	}

	dueDate, err := normalize.ParseDate(rec[colDue])
	if err != nil {
		return fail("vencimento", err)
	}
	paymentDate, err := normalize.ParseDate(rec[colPaidDate])
	if err != nil {
		return fail("data_pagamento", err)
	}
	nominal, err := normalize.ParseAmount(rec[colNominal])
	if err != nil {
		return fail("valor_original", err)
	}
	paid, err := normalize.ParseAmount(rec[colPaid])
	if err != nil {
		return fail("valor_pago", err)
	}

	// Interest/fine is optional: blank means zero.
	interest := decimal.Zero
	if strings.TrimSpace(rec[colInterest]) != "" {
		interest, err = normalize.ParseAmount(rec[colInterest])
		if err != nil {
			return fail("juros_multas", err)
		}
	}

	return model.PaymentRecord{
		Counterparty: strings.TrimSpace(rec[colCparty]),
		Invoice:      strings.TrimSpace(rec[colInvoice]),
		DueDate:      dueDate,
		Nominal:      nominal.Abs(),
		InterestFine: interest.Abs(),
		Paid:         paid.Abs(),
		Method:       strings.TrimSpace(rec[colMethod]),
		PaymentDate:  paymentDate,
		Channel:      strings.TrimSpace(rec[colChannel]),
	}, nil
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
	return first == "FORNECEDOR" || first == "COUNTERPARTY"
}
