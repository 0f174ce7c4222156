// Package parser detects which bank produced a statement table and extracts
// canonical transactions from it. Three layouts are supported: the NBG
// account export, the NBG card export and the Revolut app export.
package parser

import (
	"github.com/charmbracelet/log"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/table"
)

// Source identifies one of the supported statement layouts.
type Source string

const (
	SourceRevolut Source = "revolut"
	SourceAccount Source = "account"
	SourceCard    Source = "card"
)

// Required column sets per layout. Matching is subset-based so extra columns
// in the export are tolerated. Revolut's Currency column is validated by the
// extractor, not by detection.
var (
	revolutColumns = []string{
		"Type", "Started Date", "Description", "Amount", "Fee", "State",
	}
	accountColumns = []string{
		accountDateColumn, accountPayeeColumn, accountMemoColumn,
		accountAmountColumn, accountIndicatorColumn,
	}
	cardColumns = []string{
		cardDateColumn, cardPayeeColumn, cardAmountColumn, cardIndicatorColumn,
	}
)

// Detect selects the single matching layout for the table's column set.
// Revolut is checked first because its required set is a superset unlikely to
// collide, then account, then card.
func Detect(t *table.Table) (Source, error) {
	switch {
	case t.HasColumns(revolutColumns):
		return SourceRevolut, nil
	case t.HasColumns(accountColumns):
		return SourceAccount, nil
	case t.HasColumns(cardColumns):
		return SourceCard, nil
	}
	return "", &UnrecognizedFormatError{Columns: t.Columns}
}

// Parser converts raw statement tables into canonical transactions.
type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{logger: logger}
}

// Convert detects the table's layout and runs the matching extractor. The
// returned Source tells the caller which layout was used.
func (p *Parser) Convert(t *table.Table) ([]models.Transaction, Source, error) {
	source, err := Detect(t)
	if err != nil {
		p.logger.Debug("unrecognized statement layout", "columns", t.Columns)
		return nil, "", err
	}
	p.logger.Debug("detected statement layout", "source", source, "rows", len(t.Rows))

	var txs []models.Transaction
	switch source {
	case SourceRevolut:
		txs, err = p.extractRevolut(t)
	case SourceAccount:
		txs, err = p.extractAccount(t)
	case SourceCard:
		txs, err = p.extractCard(t)
	}
	if err != nil {
		return nil, source, err
	}

	p.logger.Info("statement converted", "source", source, "transactions", len(txs))
	return txs, source, nil
}

func requireColumns(t *table.Table, source Source, required []string) error {
	if missing := t.MissingColumns(required); len(missing) > 0 {
		return &MissingColumnsError{Source: source, Missing: missing}
	}
	return nil
}
