// Package reconcile removes transactions that already exist elsewhere: in a
// previously written export file (exact composite-key matching) or in the
// remote ledger's recent history (exact and fuzzy strategies). Both engines
// are pure functions over their input slices; fetching remote history is the
// caller's job.
package reconcile

import (
	"time"

	"github.com/yiorgosm/ynabex/pkg/models"
)

// LocalOptions tunes the previous-export filter.
type LocalOptions struct {
	// DropOlder additionally drops any new transaction dated strictly
	// before the latest date in the previous export. Useful when the
	// previous file's key fields are incomplete and historical rows would
	// otherwise resurface.
	DropOlder bool
}

// ExcludeExisting returns the subset of newTxs whose composite key (date,
// payee, amount and memo, compared case-insensitively after trimming) is not
// present in prev. With an empty prev the input is returned unchanged.
func ExcludeExisting(newTxs, prev []models.Transaction, opts LocalOptions) []models.Transaction {
	if len(prev) == 0 {
		return newTxs
	}

	prevKeys := make(map[string]bool, len(prev))
	var latest time.Time
	for _, t := range prev {
		prevKeys[t.Key()] = true
		if t.Date.After(latest) {
			latest = t.Date
		}
	}

	kept := make([]models.Transaction, 0, len(newTxs))
	for _, t := range newTxs {
		if prevKeys[t.Key()] {
			continue
		}
		if opts.DropOlder && t.Date.Before(latest) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
