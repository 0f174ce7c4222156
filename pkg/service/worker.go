package service

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/reconcile"
)

// Fetcher supplies the bounded recent-transaction window used for duplicate
// checking. Implemented by the ynab package; kept as an interface so the
// worker is testable without the network.
type Fetcher interface {
	FetchRecent(budgetID, accountID string, lookbackDays, maxCount int) ([]reconcile.Remote, error)
}

// CheckOptions bounds one duplicate check.
type CheckOptions struct {
	LookbackDays  int
	MaxCount      int
	MemoPrefixLen int
	// Refresh drops any cached window for the account before fetching.
	Refresh bool
}

// CheckResult is the single message a duplicate check delivers: either a
// report or an error, never both.
type CheckResult struct {
	Report *reconcile.Report
	Err    error
}

// CheckDuplicates fetches the account's recent window (through cache when one
// is supplied) and runs the remote duplicate engine.
func CheckDuplicates(f Fetcher, cache *reconcile.Cache, budgetID, accountID string, local []models.Transaction, opts CheckOptions) (*reconcile.Report, error) {
	if cache != nil && opts.Refresh {
		cache.Invalidate(budgetID, accountID)
	}

	var window []reconcile.Remote
	if cache != nil {
		if cached, ok := cache.Get(budgetID, accountID); ok {
			window = cached
		}
	}
	if window == nil {
		fetched, err := f.FetchRecent(budgetID, accountID, opts.LookbackDays, opts.MaxCount)
		if err != nil {
			return nil, err
		}
		window = fetched
		if cache != nil {
			cache.Put(budgetID, accountID, window)
		}
	}

	return reconcile.Build(local, window, reconcile.Options{MemoPrefixLen: opts.MemoPrefixLen}), nil
}

// CheckDuplicatesAsync runs CheckDuplicates in a background goroutine so an
// interactive caller is not blocked on the network fetch. The returned
// channel delivers exactly one CheckResult and is then closed. Cancelling ctx
// abandons the worker: the caller gets a result with ctx's error and the
// in-flight fetch finishes in the background without an observer.
func CheckDuplicatesAsync(ctx context.Context, logger *log.Logger, f Fetcher, cache *reconcile.Cache, budgetID, accountID string, local []models.Transaction, opts CheckOptions) <-chan CheckResult {
	out := make(chan CheckResult, 1)
	inner := make(chan CheckResult, 1)

	go func() {
		report, err := CheckDuplicates(f, cache, budgetID, accountID, local, opts)
		inner <- CheckResult{Report: report, Err: err}
	}()

	go func() {
		defer close(out)
		select {
		case res := <-inner:
			if res.Err != nil {
				logger.Error("duplicate check failed", "error", res.Err, "account_id", accountID)
			} else {
				logger.Debug("duplicate check complete",
					"duplicates", res.Report.DuplicateCount(), "to_upload", res.Report.UploadCount())
			}
			out <- res
		case <-ctx.Done():
			logger.Warn("duplicate check abandoned", "error", ctx.Err(), "account_id", accountID)
			out <- CheckResult{Err: ctx.Err()}
		}
	}()

	return out
}
