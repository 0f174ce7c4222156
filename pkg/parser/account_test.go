package parser

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountHeader = []string{
	"Valeur", "Ονοματεπώνυμο αντισυμβαλλόμενου", "Περιγραφή", "Ποσό συναλλαγής", "Χρέωση / Πίστωση",
}

func TestExtractAccount(t *testing.T) {
	p := New(log.Default())

	tbl := makeTable(accountHeader,
		[]string{"15/03/2025", "SUPERMARKET AE", "ΑΓΟΡΑ POS", "45,67", "Χρέωση"},
		[]string{"16/03/2025", "EMPLOYER LTD", "ΜΙΣΘΟΔΟΣΙΑ ΜΑΡΤΙΟΥ", "1.234,56", "Πίστωση"},
	)
	txs, err := p.extractAccount(tbl)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "2025-03-15", txs[0].DateString())
	assert.Equal(t, "SUPERMARKET AE", txs[0].Payee)
	assert.Equal(t, "ΑΓΟΡΑ POS", txs[0].Memo)
	assert.Equal(t, "-45.67", txs[0].AmountString())

	assert.Equal(t, "2025-03-16", txs[1].DateString())
	assert.Equal(t, "1234.56", txs[1].AmountString())
}

func TestExtractAccountResignsRegardlessOfRawPolarity(t *testing.T) {
	p := New(log.Default())

	// The indicator always wins over however the raw field was signed.
	tbl := makeTable(accountHeader,
		[]string{"1/4/2025", "A", "m", "-50,00", "Πίστωση"},
		[]string{"1/4/2025", "B", "m", "-50,00", "Χρέωση"},
		[]string{"1/4/2025", "C", "m", "50,00", "Χρέωση"},
		[]string{"1/4/2025", "D", "m", "50,00", "DEBIT"},
		[]string{"1/4/2025", "E", "m", "50,00", " χ "},
		[]string{"1/4/2025", "F", "m", "-50,00", "credit"},
	)
	txs, err := p.extractAccount(tbl)
	require.NoError(t, err)
	require.Len(t, txs, 6)

	assert.Equal(t, "50.00", txs[0].AmountString())
	assert.Equal(t, "-50.00", txs[1].AmountString())
	assert.Equal(t, "-50.00", txs[2].AmountString())
	assert.Equal(t, "-50.00", txs[3].AmountString())
	assert.Equal(t, "-50.00", txs[4].AmountString())
	assert.Equal(t, "50.00", txs[5].AmountString())
}

func TestExtractAccountPayeeFallsBackToDescription(t *testing.T) {
	p := New(log.Default())

	tbl := makeTable(accountHeader,
		[]string{"2/4/2025", "  ", "ΠΡΟΜΗΘΕΙΑ ΤΡΑΠΕΖΗΣ", "1,50", "Χρέωση"},
	)
	txs, err := p.extractAccount(tbl)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "ΠΡΟΜΗΘΕΙΑ ΤΡΑΠΕΖΗΣ", txs[0].Payee)
	assert.Equal(t, "ΠΡΟΜΗΘΕΙΑ ΤΡΑΠΕΖΗΣ", txs[0].Memo)
}

func TestExtractAccountBadDateAbortsWholeBatch(t *testing.T) {
	p := New(log.Default())

	tbl := makeTable(accountHeader,
		[]string{"15/03/2025", "OK", "m", "1,00", "Χρέωση"},
		[]string{"not-a-date", "BAD", "m", "2,00", "Χρέωση"},
		[]string{"16/03/2025", "ALSO OK", "m", "3,00", "Χρέωση"},
	)
	txs, err := p.extractAccount(tbl)
	require.Error(t, err)
	assert.Nil(t, txs)

	var dateErr *InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, 2, dateErr.Row)
	assert.Equal(t, "not-a-date", dateErr.Value)
}

func TestExtractAccountMissingColumns(t *testing.T) {
	p := New(log.Default())

	tbl := makeTable([]string{"Valeur", "Περιγραφή"}, []string{"1/1/2025", "x"})
	_, err := p.extractAccount(tbl)

	var missingErr *MissingColumnsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, SourceAccount, missingErr.Source)
	assert.Contains(t, missingErr.Missing, "Ποσό συναλλαγής")
}
