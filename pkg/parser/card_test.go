package parser

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cardHeader = []string{"Ημερομηνία/Ώρα Συναλλαγής", "Περιγραφή Κίνησης", "Ποσό", "Χ/Π"}

func TestExtractCard(t *testing.T) {
	p := New(log.Default())

	tbl := makeTable(cardHeader,
		[]string{"21/2/2025 10:00pm", "E-COMMERCE PURCHASE - SHOP.EXAMPLE.COM", "12,34", "Χ"},
		[]string{"22/02/2025 09:15", "3D SECURE E-COMMERCE ΑΓΟΡΑ - SHOP.EXAMPLE.GR (ATHENS)", "50,00", "Χ"},
		[]string{"23/02/2025 11:00", "ΕΠΙΣΤΡΟΦΗ ΑΓΟΡΑΣ", "20,00", "Π"},
	)
	txs, err := p.extractCard(tbl)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, "2025-02-21", txs[0].DateString())
	assert.Equal(t, "SHOP.EXAMPLE.COM", txs[0].Payee)
	assert.Equal(t, "E-COMMERCE PURCHASE - SHOP.EXAMPLE.COM", txs[0].Memo)
	assert.Equal(t, "-12.34", txs[0].AmountString())

	assert.Equal(t, "SHOP.EXAMPLE.GR", txs[1].Payee)
	assert.Equal(t, "3D SECURE E-COMMERCE ΑΓΟΡΑ - SHOP.EXAMPLE.GR (ATHENS)", txs[1].Memo)
	assert.Equal(t, "-50.00", txs[1].AmountString())

	assert.Equal(t, "20.00", txs[2].AmountString())
}

func TestExtractCardDebitOnlyFlipsPositiveAmounts(t *testing.T) {
	p := New(log.Default())

	// Unlike the account extractor, a pre-signed negative amount stays as
	// is under a debit mark.
	tbl := makeTable(cardHeader,
		[]string{"1/3/2025 08:00", "MERCHANT A", "-30,00", "Χ"},
		[]string{"1/3/2025 08:00", "MERCHANT B", "30,00", "Χ"},
	)
	txs, err := p.extractCard(tbl)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "-30.00", txs[0].AmountString())
	assert.Equal(t, "-30.00", txs[1].AmountString())
}

func TestExtractCardBadDateAbortsWholeBatch(t *testing.T) {
	p := New(log.Default())

	tbl := makeTable(cardHeader,
		[]string{"21/2/2025 10:00pm", "OK", "1,00", "Χ"},
		[]string{"2025/21/02", "BAD", "2,00", "Χ"},
	)
	_, err := p.extractCard(tbl)

	var dateErr *InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, SourceCard, dateErr.Source)
}
