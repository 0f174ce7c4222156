package parser

import (
	"strings"
	"time"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/normalize"
	"github.com/yiorgosm/ynabex/pkg/table"
)

// NBG account export columns. The value-date column keeps its French header
// as shipped by the bank.
const (
	accountDateColumn      = "Valeur"
	accountPayeeColumn     = "Ονοματεπώνυμο αντισυμβαλλόμενου"
	accountMemoColumn      = "Περιγραφή"
	accountAmountColumn    = "Ποσό συναλλαγής"
	accountIndicatorColumn = "Χρέωση / Πίστωση"

	accountDateLayout = "2/1/2006"
)

// Debit/credit indicator tokens, compared after accent-strip, uppercase and
// trim so "Χρέωση", "χ" and "Debit" all resolve.
var (
	debitTokens  = map[string]bool{"ΧΡΕΩΣΗ": true, "Χ": true, "DEBIT": true, "D": true}
	creditTokens = map[string]bool{"ΠΙΣΤΩΣΗ": true, "Π": true, "CREDIT": true, "C": true}
)

func normalizeIndicator(raw string) string {
	return strings.ToUpper(normalize.StripAccents(strings.TrimSpace(raw)))
}

// extractAccount converts an NBG account export. Payee falls back to the
// description when the counterparty field is blank, and the amount's sign is
// forced by the debit/credit indicator regardless of the raw field's
// polarity. Any unparsable date aborts the whole batch.
func (p *Parser) extractAccount(t *table.Table) ([]models.Transaction, error) {
	if err := requireColumns(t, SourceAccount, accountColumns); err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		rawDate := strings.TrimSpace(row.Get(accountDateColumn))
		date, err := time.Parse(accountDateLayout, rawDate)
		if err != nil {
			return nil, &InvalidDateError{Source: SourceAccount, Row: i + 1, Value: rawDate}
		}

		payee := strings.TrimSpace(row.Get(accountPayeeColumn))
		memo := row.Get(accountMemoColumn)
		if payee == "" {
			payee = strings.TrimSpace(memo)
		}

		amount, err := normalize.ParseAmount(row.Get(accountAmountColumn))
		if err != nil {
			return nil, err
		}
		switch indicator := normalizeIndicator(row.Get(accountIndicatorColumn)); {
		case debitTokens[indicator]:
			amount = amount.Abs().Neg()
		case creditTokens[indicator]:
			amount = amount.Abs()
		}

		txs = append(txs, models.Transaction{
			Date:   date,
			Payee:  payee,
			Memo:   memo,
			Amount: amount.Round(2),
		})
	}
	return txs, nil
}
