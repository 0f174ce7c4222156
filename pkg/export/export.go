// Package export serializes canonical transactions to delimited files and
// derives output filenames from the input statement's name.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/yiorgosm/ynabex/pkg/models"
)

// FilterFunc selects which transactions are written. A nil filter keeps all.
type FilterFunc func(models.Transaction) bool

var formulaPrefixes = []string{"=", "+", "-", "@"}

// SanitizeCell neutralizes spreadsheet formula injection: any text cell
// starting with =, +, - or @ gets a leading apostrophe before it reaches a
// spreadsheet application.
func SanitizeCell(value string) string {
	stripped := strings.TrimLeft(value, " \t")
	for _, p := range formulaPrefixes {
		if strings.HasPrefix(stripped, p) {
			return "'" + value
		}
	}
	return value
}

// Write emits the canonical CSV: a Date,Payee,Memo,Amount header then one row
// per transaction, dates as YYYY-MM-DD and amounts with exactly two decimals.
// Payee and memo cells are sanitized against formula injection.
func Write(w io.Writer, txs []models.Transaction, filter FilterFunc) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Date", "Payee", "Memo", "Amount"}); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}
	for _, t := range txs {
		if filter != nil && !filter(t) {
			continue
		}
		record := []string{
			t.DateString(),
			SanitizeCell(t.Payee),
			SanitizeCell(t.Memo),
			t.AmountString(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing transaction: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteActual emits the Actual Budget import shape: lowercase
// date,payee,amount,notes columns with the memo in the notes position.
func WriteActual(w io.Writer, txs []models.Transaction, filter FilterFunc) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "payee", "amount", "notes"}); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}
	for _, t := range txs {
		if filter != nil && !filter(t) {
			continue
		}
		record := []string{
			t.DateString(),
			SanitizeCell(t.Payee),
			t.AmountString(),
			SanitizeCell(t.Memo),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing transaction: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
