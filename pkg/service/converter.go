// Package service wires the conversion pipeline together: read a statement
// file, detect and extract, optionally filter against a previous export, and
// write the result. It also runs the background duplicate check against the
// remote ledger.
package service

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yiorgosm/ynabex/pkg/export"
	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/parser"
	"github.com/yiorgosm/ynabex/pkg/reconcile"
	"github.com/yiorgosm/ynabex/pkg/table"
)

// ConvertOptions tunes a single file conversion.
type ConvertOptions struct {
	// PreviousPath optionally points at an earlier export; transactions
	// already present there are dropped from the result.
	PreviousPath string
	// DropOlder extends the previous-export filter to also drop rows dated
	// before the previous file's latest date.
	DropOlder bool
}

// Converter turns statement files into canonical transactions.
type Converter struct {
	logger *log.Logger
	parser *parser.Parser
}

func NewConverter(logger *log.Logger) *Converter {
	return &Converter{logger: logger, parser: parser.New(logger)}
}

// ConvertBytes converts in-memory statement data. The filename picks the
// table reader (.csv/.xls/.xlsx). Satisfies models.Converter.
func (c *Converter) ConvertBytes(data []byte, filename string) ([]models.Transaction, error) {
	txs, _, err := c.convert(data, filename, ConvertOptions{})
	return txs, err
}

// ConvertFile converts a statement file from disk.
func (c *Converter) ConvertFile(path string, opts ConvertOptions) ([]models.Transaction, parser.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read statement file %s: %w", path, err)
	}
	return c.convert(data, path, opts)
}

func (c *Converter) convert(data []byte, filename string, opts ConvertOptions) ([]models.Transaction, parser.Source, error) {
	t, err := table.Read(data, filename)
	if err != nil {
		return nil, "", err
	}

	txs, source, err := c.parser.Convert(t)
	if err != nil {
		return nil, source, err
	}

	if opts.PreviousPath != "" {
		prevData, err := os.ReadFile(opts.PreviousPath)
		if err != nil {
			return nil, source, fmt.Errorf("failed to read previous export %s: %w", opts.PreviousPath, err)
		}
		prev, err := export.ReadPrevious(prevData)
		if err != nil {
			return nil, source, err
		}
		before := len(txs)
		txs = reconcile.ExcludeExisting(txs, prev, reconcile.LocalOptions{DropOlder: opts.DropOlder})
		if excluded := before - len(txs); excluded > 0 {
			c.logger.Info("excluded transactions already present in previous export", "count", excluded)
		}
	}

	return txs, source, nil
}

// WriteOutput writes txs next to the input file (or into outputDir) using the
// canonical CSV shape, and returns the output path. Revolut exports carry no
// usable date in their filename, so those get today's date.
func (c *Converter) WriteOutput(inputPath string, outputDir string, source parser.Source, txs []models.Transaction) (string, error) {
	outPath := export.OutputFilename(inputPath, outputDir, source == parser.SourceRevolut)
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := export.Write(f, txs, nil); err != nil {
		return "", err
	}
	c.logger.Info("conversion complete", "output", outPath, "transactions", len(txs))
	return outPath, nil
}

// WriteActualOutput is WriteOutput for the Actual Budget import shape.
func (c *Converter) WriteActualOutput(inputPath string, outputDir string, source parser.Source, txs []models.Transaction) (string, error) {
	outPath := export.ActualOutputFilename(inputPath, outputDir, source == parser.SourceRevolut)
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := export.WriteActual(f, txs, nil); err != nil {
		return "", err
	}
	c.logger.Info("conversion complete", "output", outPath, "transactions", len(txs))
	return outPath, nil
}
