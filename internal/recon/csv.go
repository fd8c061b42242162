package recon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/normalize"
)

// ErrUnclassified blocks CSV emission while unclassified items remain.
var ErrUnclassified = errors.New("unclassified items present")

// outputHeader is the fixed column order of the ledger CSV.
var outputHeader = []string{
	"Data",
	"Cod Conta Débito",
	"Cod Conta Crédito",
	"Valor",
	"Cod Histórico",
	"Complemento",
	"Inicia Lote",
}

// WriteCSV serializes the run's ledger rows, comma-separated UTF-8, in
// production order. It refuses to emit anything while the unclassified set
// is non-empty: the caller must fix the chart and re-run.
func (r *Report) WriteCSV(w io.Writer) error {
	if !r.OK() {
		return fmt.Errorf("%w: %d items", ErrUnclassified, len(r.Unclassified))
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(outputHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range r.Rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a LedgerRow to a CSV record. Inicia Lote is "1" or
// empty, never a boolean literal; blank account codes stay blank.
func MarshalRow(row model.LedgerRow) []string {
	rec := make([]string, len(outputHeader))
	rec[0] = normalize.FormatDate(row.Date)
	if row.Debit != 0 {
		rec[1] = strconv.Itoa(row.Debit)
	}
	if row.Credit != 0 {
		rec[2] = strconv.Itoa(row.Credit)
	}
	rec[3] = normalize.FormatValue(row.Value)
	if row.Historical != 0 {
		rec[4] = strconv.Itoa(row.Historical)
	}
	rec[5] = row.Complement
	if row.BatchStart {
		rec[6] = "1"
	}
	return rec
}
