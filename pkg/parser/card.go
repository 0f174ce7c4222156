package parser

import (
	"strings"
	"time"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/normalize"
	"github.com/yiorgosm/ynabex/pkg/table"
)

// NBG card export columns.
const (
	cardDateColumn      = "Ημερομηνία/Ώρα Συναλλαγής"
	cardPayeeColumn     = "Περιγραφή Κίνησης"
	cardAmountColumn    = "Ποσό"
	cardIndicatorColumn = "Χ/Π"

	cardDateLayout = "2/1/2006"
)

// extractCard converts an NBG card export. The date-time cell's time-of-day
// suffix is discarded. Payee is the cleaned description (e-commerce prefixes
// and parenthetical annotations removed); memo keeps the original text.
//
// Sign handling differs from the account extractor on purpose: the card
// export pre-signs its amount field, so a debit mark only flips amounts that
// are still positive instead of re-signing unconditionally.
func (p *Parser) extractCard(t *table.Table) ([]models.Transaction, error) {
	if err := requireColumns(t, SourceCard, cardColumns); err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		rawDate := strings.TrimSpace(row.Get(cardDateColumn))
		datePart := rawDate
		if fields := strings.Fields(rawDate); len(fields) > 0 {
			datePart = fields[0]
		}
		date, err := time.Parse(cardDateLayout, datePart)
		if err != nil {
			return nil, &InvalidDateError{Source: SourceCard, Row: i + 1, Value: rawDate}
		}

		description := row.Get(cardPayeeColumn)

		amount, err := normalize.ParseAmount(row.Get(cardAmountColumn))
		if err != nil {
			return nil, err
		}
		switch indicator := normalizeIndicator(row.Get(cardIndicatorColumn)); {
		case debitTokens[indicator]:
			if amount.IsPositive() {
				amount = amount.Neg()
			}
		case creditTokens[indicator]:
			amount = amount.Abs()
		}

		txs = append(txs, models.Transaction{
			Date:   date,
			Payee:  normalize.CleanPayee(description),
			Memo:   description,
			Amount: amount.Round(2),
		})
	}
	return txs, nil
}
