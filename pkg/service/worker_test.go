package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/reconcile"
)

type fakeFetcher struct {
	window  []reconcile.Remote
	err     error
	calls   int
	blockOn chan struct{}
}

func (f *fakeFetcher) FetchRecent(budgetID, accountID string, lookbackDays, maxCount int) ([]reconcile.Remote, error) {
	f.calls++
	if f.blockOn != nil {
		<-f.blockOn
	}
	return f.window, f.err
}

func serviceTx(date, payee, amount string) models.Transaction {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{Date: d, Payee: payee, Amount: decimal.RequireFromString(amount)}
}

func TestCheckDuplicates(t *testing.T) {
	fetcher := &fakeFetcher{window: []reconcile.Remote{
		{Date: "2025-06-01", Payee: "shop", Amount: -10000},
	}}
	local := []models.Transaction{
		serviceTx("2025-06-01", "Shop", "-10.00"),
		serviceTx("2025-06-02", "Fresh", "-7.00"),
	}

	report, err := CheckDuplicates(fetcher, nil, "b1", "a1", local, CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.DuplicateCount())
	assert.Equal(t, 1, report.UploadCount())
}

func TestCheckDuplicatesUsesCache(t *testing.T) {
	fetcher := &fakeFetcher{window: []reconcile.Remote{{Date: "2025-05-01", Amount: -1000}}}
	cache := reconcile.NewCache()
	local := []models.Transaction{serviceTx("2025-06-01", "Shop", "-10.00")}

	_, err := CheckDuplicates(fetcher, cache, "b1", "a1", local, CheckOptions{})
	require.NoError(t, err)
	_, err = CheckDuplicates(fetcher, cache, "b1", "a1", local, CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	// Refresh drops the cached window and refetches
	_, err = CheckDuplicates(fetcher, cache, "b1", "a1", local, CheckOptions{Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestCheckDuplicatesFetchError(t *testing.T) {
	fetchErr := errors.New("api unavailable")
	fetcher := &fakeFetcher{err: fetchErr}

	report, err := CheckDuplicates(fetcher, nil, "b1", "a1", nil, CheckOptions{})
	require.ErrorIs(t, err, fetchErr)
	assert.Nil(t, report)
}

func TestCheckDuplicatesAsyncDeliversExactlyOneResult(t *testing.T) {
	fetcher := &fakeFetcher{}
	local := []models.Transaction{serviceTx("2025-06-01", "Shop", "-10.00")}

	ch := CheckDuplicatesAsync(context.Background(), log.Default(), fetcher, nil, "b1", "a1", local, CheckOptions{})

	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Report.UploadCount())

	_, ok = <-ch
	assert.False(t, ok, "channel closes after the single result")
}

func TestCheckDuplicatesAsyncAbandonsOnCancel(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	fetcher := &fakeFetcher{blockOn: release}

	ctx, cancel := context.WithCancel(context.Background())
	ch := CheckDuplicatesAsync(ctx, log.Default(), fetcher, nil, "b1", "a1", nil, CheckOptions{})
	cancel()

	res := <-ch
	require.ErrorIs(t, res.Err, context.Canceled)
	assert.Nil(t, res.Report)
}
