package parser

import (
	"sort"
	"strings"
	"time"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/normalize"
	"github.com/yiorgosm/ynabex/pkg/table"
)

const (
	revolutTypeColumn     = "Type"
	revolutDateColumn     = "Started Date"
	revolutPayeeColumn    = "Description"
	revolutAmountColumn   = "Amount"
	revolutFeeColumn      = "Fee"
	revolutStateColumn    = "State"
	revolutCurrencyColumn = "Currency"

	revolutCurrency       = "EUR"
	revolutStateCompleted = "COMPLETED"
)

var revolutDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2/1/2006 15:04",
	"2/1/2006",
}

func parseRevolutDate(raw string) (time.Time, bool) {
	for _, layout := range revolutDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// extractRevolut converts a Revolut app export. The whole batch is rejected
// when any row carries a non-EUR currency; rows whose state is not COMPLETED
// (REVERTED, PENDING, ...) are silently skipped. The final amount is the
// parsed amount minus the fee, so outgoing payments get more negative and
// incoming transfers are only reduced, never flipped. Output is sorted
// newest-first with a stable sort, the canonical convention for this source.
func (p *Parser) extractRevolut(t *table.Table) ([]models.Transaction, error) {
	required := append(append([]string{}, revolutColumns...), revolutCurrencyColumn)
	if err := requireColumns(t, SourceRevolut, required); err != nil {
		return nil, err
	}

	for _, row := range t.Rows {
		if currency := strings.TrimSpace(row.Get(revolutCurrencyColumn)); currency != revolutCurrency {
			return nil, &CurrencyMismatchError{Currency: currency}
		}
	}

	txs := make([]models.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		if strings.TrimSpace(row.Get(revolutStateColumn)) != revolutStateCompleted {
			continue
		}

		rawDate := strings.TrimSpace(row.Get(revolutDateColumn))
		date, ok := parseRevolutDate(rawDate)
		if !ok {
			return nil, &InvalidDateError{Source: SourceRevolut, Row: i + 1, Value: rawDate}
		}

		amount, err := normalize.ParseAmount(row.Get(revolutAmountColumn))
		if err != nil {
			return nil, err
		}
		fee, err := normalize.ParseAmount(row.Get(revolutFeeColumn))
		if err != nil {
			return nil, err
		}

		txs = append(txs, models.Transaction{
			Date:   date,
			Payee:  strings.TrimSpace(row.Get(revolutPayeeColumn)),
			Memo:   row.Get(revolutTypeColumn),
			Amount: amount.Sub(fee).Round(2),
		})
	}

	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
	return txs, nil
}
