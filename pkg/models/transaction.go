package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical textual date form used everywhere downstream of
// extraction: output CSVs, dedup keys and the remote ledger API.
const DateLayout = "2006-01-02"

// Transaction is the canonical record every statement source is converted
// into. Negative amounts are funds leaving the account, positive amounts are
// funds entering it, regardless of how the source encoded debit/credit.
// Values are built once by an extractor and never mutated afterwards.
type Transaction struct {
	Date   time.Time
	Payee  string
	Memo   string
	Amount decimal.Decimal

	// ImportID is the opaque stable identifier some ledgers attach to an
	// uploaded transaction. Carried through unmodified when present;
	// empty is a valid state.
	ImportID string
}

// DateString returns the date in canonical YYYY-MM-DD form.
func (t Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// AmountString returns the amount with exactly two fractional digits.
func (t Transaction) AmountString() string {
	return t.Amount.StringFixed(2)
}

// Milliunits returns the amount on the remote ledger's integer scale
// (amount x 1000, rounded).
func (t Transaction) Milliunits() int64 {
	return t.Amount.Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
}

// Key derives the composite identity used to match against a previous export:
// date, lowercased/trimmed payee, two-decimal amount text and
// lowercased/trimmed memo.
func (t Transaction) Key() string {
	return t.DateString() + "|" +
		strings.ToLower(strings.TrimSpace(t.Payee)) + "|" +
		t.AmountString() + "|" +
		strings.ToLower(strings.TrimSpace(t.Memo))
}
