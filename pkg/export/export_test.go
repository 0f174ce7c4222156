package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiorgosm/ynabex/pkg/models"
)

func tx(date, payee, memo, amount string) models.Transaction {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{
		Date:   d,
		Payee:  payee,
		Memo:   memo,
		Amount: decimal.RequireFromString(amount),
	}
}

func TestSanitizeCell(t *testing.T) {
	cases := map[string]string{
		"=SUM(A1:A9)":  "'=SUM(A1:A9)",
		"+30 130":      "'+30 130",
		"-cmd":         "'-cmd",
		"@import":      "'@import",
		"  =indented":  "'  =indented",
		"Plain payee":  "Plain payee",
		"a=b inner":    "a=b inner",
		"'=already":    "'=already",
		"":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeCell(in), "input %q", in)
	}
}

func TestWrite(t *testing.T) {
	txs := []models.Transaction{
		tx("2025-02-21", "SHOP.EXAMPLE.COM", "card payment", "-12.34"),
		tx("2025-02-22", "=HYPERLINK(...)", "-minus memo", "5.00"),
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txs, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Payee,Memo,Amount", lines[0])
	assert.Equal(t, "2025-02-21,SHOP.EXAMPLE.COM,card payment,-12.34", lines[1])
	assert.Equal(t, "2025-02-22,'=HYPERLINK(...),'-minus memo,5.00", lines[2])
}

func TestWriteAppliesFilter(t *testing.T) {
	txs := []models.Transaction{
		tx("2025-02-21", "keep", "", "-1.00"),
		tx("2025-02-22", "skip", "", "-2.00"),
	}

	var buf bytes.Buffer
	err := Write(&buf, txs, func(t models.Transaction) bool { return t.Payee == "keep" })
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "keep")
	assert.NotContains(t, buf.String(), "skip")
}

func TestWriteActual(t *testing.T) {
	txs := []models.Transaction{tx("2025-02-21", "Shop", "a note", "-12.34")}

	var buf bytes.Buffer
	require.NoError(t, WriteActual(&buf, txs, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,payee,amount,notes", lines[0])
	assert.Equal(t, "2025-02-21,Shop,-12.34,a note", lines[1])
}

func TestReadPreviousRoundTrip(t *testing.T) {
	txs := []models.Transaction{
		tx("2025-02-21", "=FORMULA", "memo", "-12.34"),
		tx("2025-02-22", "Plain", "", "5.00"),
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txs, nil))

	back, err := ReadPrevious(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, back, 2)

	// sanitizing apostrophe is stripped on the way back in
	assert.Equal(t, "=FORMULA", back[0].Payee)
	assert.Equal(t, txs[0].Key(), back[0].Key())
	assert.Equal(t, txs[1].Key(), back[1].Key())
}

func TestReadPreviousRejectsBadRows(t *testing.T) {
	_, err := ReadPrevious([]byte("Date,Payee,Memo,Amount\nnot-a-date,x,y,1.00\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")

	_, err = ReadPrevious([]byte("Date,Payee,Memo,Amount\n2025-01-01,x,y,abc\n"))
	require.Error(t, err)
}

func TestDateFromFilename(t *testing.T) {
	cases := map[string]string{
		"statement_2025-06-30.xls":  "2025-06-30",
		"export 30-06-2025 copy":    "2025-06-30",
		"account_statement.csv":     "",
		"card_2025-01-02_final.csv": "2025-01-02",
	}
	for in, want := range cases {
		assert.Equal(t, want, DateFromFilename(in), "input %q", in)
	}
}

func TestOutputFilename(t *testing.T) {
	got := OutputFilename("/in/statement_2025-06-30.xls", "", false)
	assert.Equal(t, "/in/statement_2025-06-30_ynab.csv", got)

	// a trailing DD-MM-YYYY date is stripped and re-emitted canonically
	got = OutputFilename("/in/export_30-06-2025.xls", "", false)
	assert.Equal(t, "/in/export_2025-06-30_ynab.csv", got)

	// forceToday ignores the embedded date
	today := time.Now().Format(models.DateLayout)
	got = OutputFilename("/in/statement_2025-06-30.xls", "/out", true)
	assert.Equal(t, "/out/statement_"+today+"_ynab.csv", got)

	// no embedded date falls back to today
	got = OutputFilename("/in/revolut.csv", "", false)
	assert.Equal(t, "/in/revolut_"+today+"_ynab.csv", got)

	assert.Equal(t, "/in/revolut_"+today+"_actual.csv", ActualOutputFilename("/in/revolut.csv", "", false))
}
