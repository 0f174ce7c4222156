package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	data := []byte("Date,Payee,Amount\n2025-01-01,Shop,-1.50\n2025-01-02,Other,2.00\n")

	tbl, err := ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Payee", "Amount"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Shop", tbl.Rows[0].Get("Payee"))
	assert.Equal(t, "2.00", tbl.Rows[1].Get("Amount"))
}

func TestReadCSVRaggedRowsPaddedAgainstHeader(t *testing.T) {
	data := []byte("A,B,C\n1,2\n4,5,6,7\n")

	tbl, err := ReadCSV(data)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "", tbl.Rows[0].Get("C"))
	assert.Equal(t, "6", tbl.Rows[1].Get("C"))
}

func TestReadCSVEmptyInput(t *testing.T) {
	for name, data := range map[string][]byte{
		"no bytes":    []byte(""),
		"header only": []byte("Date,Payee,Amount\n"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(data)
			require.ErrorIs(t, err, ErrEmptyInput)
		})
	}
}

func TestReadDispatchesByExtension(t *testing.T) {
	data := []byte("A,B\n1,2\n")

	tbl, err := Read(data, "statement.CSV")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tbl.Columns)

	_, err = Read(data, "statement.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".pdf")
}

func TestRowGetToleratesHeaderWhitespace(t *testing.T) {
	row := Row{"  Ποσό   συναλλαγής ": "-10.00"}

	assert.Equal(t, "-10.00", row.Get("Ποσό συναλλαγής"))
	assert.Equal(t, "", row.Get("Ποσό"))
}

func TestHasColumnsNormalizesNames(t *testing.T) {
	tbl := &Table{Columns: []string{" Started  Date", "Amount", "State "}}

	assert.True(t, tbl.HasColumns([]string{"Started Date", "State"}))
	assert.False(t, tbl.HasColumns([]string{"Started Date", "Currency"}))
	assert.Equal(t, []string{"Currency"}, tbl.MissingColumns([]string{"Amount", "Currency"}))
}
