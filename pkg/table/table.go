// Package table holds the raw tabular representation of a statement export
// and the readers that build it from CSV, XLS and XLSX files.
package table

import (
	"errors"

	"github.com/yiorgosm/ynabex/pkg/normalize"
)

// ErrEmptyInput reports an input with zero columns or zero data rows.
var ErrEmptyInput = errors.New("input has no columns or no data rows")

// Row maps a source column name to the raw cell value of one record.
type Row map[string]string

// Get returns the cell for column name, or "" when the column is absent.
// Lookup tolerates header whitespace noise the same way detection does.
func (r Row) Get(name string) string {
	if v, ok := r[name]; ok {
		return v
	}
	want := normalize.NormalizeColumnName(name)
	for k, v := range r {
		if normalize.NormalizeColumnName(k) == want {
			return v
		}
	}
	return ""
}

// Table is a parsed statement export: the header row plus one Row per record.
// Extractors never mutate it; they only read cells and produce new values.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumns reports whether every required column is present, comparing
// whitespace-normalized names so extra padding in the export is tolerated.
func (t *Table) HasColumns(required []string) bool {
	have := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		have[normalize.NormalizeColumnName(c)] = true
	}
	for _, c := range required {
		if !have[normalize.NormalizeColumnName(c)] {
			return false
		}
	}
	return true
}

// MissingColumns returns the required columns absent from the table.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !t.HasColumns([]string{c}) {
			missing = append(missing, c)
		}
	}
	return missing
}

func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrEmptyInput
	}
	header := records[0]
	t := &Table{Columns: header}
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	return t, nil
}
