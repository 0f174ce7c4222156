package reconcile

import (
	"regexp"
	"strings"

	"github.com/yiorgosm/ynabex/pkg/models"
)

// Remote is the ledger-side view of a transaction used for matching: ISO
// date, display texts, milliunit amount and the optional import identifier.
// The ynab package adapts SDK transactions into this shape so the engine
// stays free of API types.
type Remote struct {
	Date     string
	Payee    string
	Memo     string
	Amount   int64
	ImportID string
}

// DefaultMemoPrefixLen is how many characters of the normalized memos are
// compared for transfer-marked pairs. It is a tunable, not a contract.
const DefaultMemoPrefixLen = 15

// Options tunes the remote duplicate engine.
type Options struct {
	// MemoPrefixLen overrides DefaultMemoPrefixLen when > 0.
	MemoPrefixLen int
}

// Status is the reconciliation result for one local transaction.
type Status int

const (
	// ToUpload means no remote counterpart was found.
	ToUpload Status = iota
	// Duplicate means the transaction already exists on the ledger.
	Duplicate
)

// Entry links a local transaction with its remote counterpart (nil when
// status is ToUpload).
type Entry struct {
	Local  models.Transaction
	Remote *Remote
	Status Status
}

// Report is what the remote engine produces: every local transaction plus
// enough metadata for callers to display or upload without re-running the
// comparison.
type Report struct {
	Items    []Entry
	toUpload []models.Transaction
	dupIdx   map[int]bool
}

// Texts are normalized before comparison: lowercased, trimmed, with the
// e-commerce purchase prefixes and the " virtual" card suffix removed, since
// the ledger's stored payees commonly drop them.
var matchTextPrefixes = []string{
	"3d secure e-commerce αγορά - ",
	"3d secure e-commerce purchase - ",
	"3d secure ",
	"e-commerce αγορά - ",
	"e-commerce purchase - ",
}

func normalizeMatchText(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	for _, prefix := range matchTextPrefixes {
		if strings.HasPrefix(t, prefix) {
			t = t[len(prefix):]
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(t, " virtual"))
}

// Transfer-marked payees get fuzzy memo matching because transfer
// descriptions commonly diverge between the statement and the ledger.
var transferMarkers = []string{"transfer :", "transfer:"}

func isTransfer(normalizedPayee string) bool {
	for _, m := range transferMarkers {
		if strings.HasPrefix(normalizedPayee, m) {
			return true
		}
	}
	return false
}

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

func fuzzyMemoKey(memo string, prefixLen int) string {
	folded := nonWordRe.ReplaceAllString(strings.ToLower(memo), "")
	runes := []rune(folded)
	if len(runes) > prefixLen {
		runes = runes[:prefixLen]
	}
	return string(runes)
}

// memosFuzzyEqual compares the bounded memo keys as a prefix relation, so a
// short statement memo ("salary") still matches a longer ledger one
// ("salary payment ref 123"). Empty keys only match each other; an absent
// memo must not pair with every transfer on the same date and amount.
func memosFuzzyEqual(a, b string, prefixLen int) bool {
	ka := fuzzyMemoKey(a, prefixLen)
	kb := fuzzyMemoKey(b, prefixLen)
	if ka == "" || kb == "" {
		return ka == kb
	}
	return strings.HasPrefix(ka, kb) || strings.HasPrefix(kb, ka)
}

func matches(local models.Transaction, remote Remote, prefixLen int) bool {
	// Identifier match is the strongest signal and short-circuits every
	// other field.
	if local.ImportID != "" && local.ImportID == remote.ImportID {
		return true
	}

	if local.DateString() != remote.Date || local.Milliunits() != remote.Amount {
		return false
	}

	localPayee := normalizeMatchText(local.Payee)
	remotePayee := normalizeMatchText(remote.Payee)
	localMemo := normalizeMatchText(local.Memo)
	remoteMemo := normalizeMatchText(remote.Memo)

	if isTransfer(localPayee) || isTransfer(remotePayee) {
		return memosFuzzyEqual(localMemo, remoteMemo, prefixLen)
	}
	return localPayee == remotePayee && localMemo == remoteMemo
}

// Build walks the local transactions and flags the ones already present in
// the remote window. A malformed remote record never errors; it simply does
// not match.
func Build(local []models.Transaction, remote []Remote, opts Options) *Report {
	prefixLen := opts.MemoPrefixLen
	if prefixLen <= 0 {
		prefixLen = DefaultMemoPrefixLen
	}

	report := &Report{
		Items:  make([]Entry, 0, len(local)),
		dupIdx: make(map[int]bool),
	}
	for i, lt := range local {
		var found *Remote
		for j := range remote {
			if matches(lt, remote[j], prefixLen) {
				found = &remote[j]
				break
			}
		}
		status := ToUpload
		if found != nil {
			status = Duplicate
			report.dupIdx[i] = true
		} else {
			report.toUpload = append(report.toUpload, lt)
		}
		report.Items = append(report.Items, Entry{Local: lt, Remote: found, Status: status})
	}
	return report
}

// DuplicateCount returns how many local transactions already exist remotely.
func (r *Report) DuplicateCount() int {
	return len(r.Items) - len(r.toUpload)
}

// UploadCount returns how many local transactions are missing remotely.
func (r *Report) UploadCount() int {
	return len(r.toUpload)
}

// TransactionsToUpload returns the local transactions with no remote
// counterpart, in input order.
func (r *Report) TransactionsToUpload() []models.Transaction {
	return r.toUpload
}

// IsDuplicate reports whether the i-th local transaction was flagged.
func (r *Report) IsDuplicate(i int) bool {
	return r.dupIdx[i]
}
