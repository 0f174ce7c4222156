package parser

import (
	"fmt"
	"strings"
)

// UnrecognizedFormatError means no known statement layout matched the input's
// column set. It carries the observed columns for the user-facing message.
type UnrecognizedFormatError struct {
	Columns []string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("file format not recognized (columns: %s)", strings.Join(e.Columns, ", "))
}

// MissingColumnsError means a required column was absent at extraction time.
// Detection is subset-based so this should not occur for detected layouts;
// it guards direct extractor calls.
type MissingColumnsError struct {
	Source  Source
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s export is missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

// InvalidDateError means a row's date could not be parsed. Extraction is
// fail-fast: one bad date aborts the whole batch.
type InvalidDateError struct {
	Source Source
	Row    int
	Value  string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q in %s export (row %d)", e.Value, e.Source, e.Row)
}

// CurrencyMismatchError means a Revolut export contained a non-EUR row.
// The whole batch is rejected, not just the offending row.
type CurrencyMismatchError struct {
	Currency string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("revolut export must only contain EUR transactions, found %q", e.Currency)
}
