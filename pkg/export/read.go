package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/normalize"
)

// ReadPrevious parses a CSV previously written by Write (Date,Payee,Memo,
// Amount) back into canonical transactions so a new conversion can be
// filtered against it. Sanitizing apostrophes are stripped from text cells.
func ReadPrevious(data []byte) ([]models.Transaction, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read previous export: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("previous export is empty")
	}

	start := 0
	if len(records[0]) >= 4 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		start = 1
	}

	txs := make([]models.Transaction, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 4 {
			continue
		}

		date, err := time.Parse(models.DateLayout, strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("previous export line %d: invalid date %q", i+1, rec[0])
		}
		amount, err := normalize.ParseAmount(rec[3])
		if err != nil {
			return nil, fmt.Errorf("previous export line %d: %w", i+1, err)
		}

		txs = append(txs, models.Transaction{
			Date:   date,
			Payee:  strings.TrimPrefix(strings.TrimSpace(rec[1]), "'"),
			Memo:   strings.TrimPrefix(rec[2], "'"),
			Amount: amount,
		})
	}
	return txs, nil
}
