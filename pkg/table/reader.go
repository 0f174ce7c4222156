package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Read parses data into a Table, choosing the reader from the file extension.
// Supported extensions: .csv, .xls, .xlsx.
func Read(data []byte, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(data)
	case ".xls":
		return ReadXLS(data)
	case ".xlsx":
		return ReadXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q (must be .csv, .xls or .xlsx)", filepath.Ext(filename))
	}
}

// ReadCSV parses a comma-delimited export. The first record is the header.
func ReadCSV(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // ragged rows are padded against the header

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return fromRecords(records)
}

// ReadXLS parses a legacy binary Excel export.
func ReadXLS(data []byte) (*Table, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	rows := workbook.ReadAllCells(10000)
	return fromRecords(rows)
}

// ReadXLSX parses a modern Excel export, using the first sheet.
func ReadXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return fromRecords(rows)
}
