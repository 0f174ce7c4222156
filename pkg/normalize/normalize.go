// Package normalize holds the text and amount normalization helpers shared by
// every statement extractor: locale-ambiguous decimal parsing, payee cleanup
// and loose column-name matching.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FormatError reports an amount literal that could not be parsed as a decimal
// after separator normalization.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid amount literal %q", e.Value)
}

var separatorCleaner = strings.NewReplacer("'", "", " ", "", " ", "")

// ParseAmount converts an amount string into a decimal, accepting either comma
// or dot as the decimal separator and optional thousands separators
// (apostrophe, non-breaking space, plain space, or the opposite of the decimal
// separator). When both comma and dot are present the one occurring later in
// the string wins as the decimal separator. A lone comma is always treated as
// the decimal separator.
//
// Supported shapes: "1.234,56", "1,234.56", "1234,56", "7", "-7,99".
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := separatorCleaner.Replace(strings.TrimSpace(raw))

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &FormatError{Value: raw}
	}
	return d, nil
}

// PayeeCleanupPatterns is the default ordered pattern list for card payee
// cleanup. The most specific prefix comes first so the generic one does not
// leave a dangling "3D SECURE" behind; the parenthetical pass runs last.
var PayeeCleanupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`3D SECURE E-COMMERCE (?:ΑΓΟΡΑ|PURCHASE) - `),
	regexp.MustCompile(`E-COMMERCE (?:ΑΓΟΡΑ|PURCHASE) - `),
	regexp.MustCompile(`\s*\([^)]*\)`),
}

// CleanPayee applies the removal patterns in order and trims the result. With
// no patterns given the default card cleanup list is used.
func CleanPayee(raw string, patterns ...*regexp.Regexp) string {
	if len(patterns) == 0 {
		patterns = PayeeCleanupPatterns
	}
	s := raw
	for _, p := range patterns {
		s = p.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// NormalizeColumnName trims a column header and collapses internal whitespace
// runs to single spaces, for loose column-set matching.
func NormalizeColumnName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes diacritical marks ("Χρέωση" -> "Χρεωση") so indicator
// tokens compare reliably across bank exports.
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}
