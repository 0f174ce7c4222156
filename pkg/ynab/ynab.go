// Package ynab wraps the upstream YNAB client behind the two operations the
// pipeline needs: fetching a bounded window of recent transactions for
// duplicate checking, and uploading converted transactions.
package ynab

import (
	"fmt"
	"time"

	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/account"
	"github.com/brunomvsouza/ynab.go/api/budget"
	"github.com/brunomvsouza/ynab.go/api/transaction"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/reconcile"
)

// Default bounds for the recent-transaction window consulted during
// duplicate checks.
const (
	DefaultLookbackDays = 90
	DefaultMaxCount     = 200
)

// Client wraps the upstream YNAB client.
type Client struct {
	client ynab.ClientServicer
}

func New(token string) *Client {
	return &Client{client: ynab.NewClient(token)}
}

// Budgets lists the user's budgets.
func (c *Client) Budgets() ([]*budget.Summary, error) {
	return c.client.Budget().GetBudgets()
}

// Accounts lists the accounts of a budget.
func (c *Client) Accounts(budgetID string) (*account.SearchResultSnapshot, error) {
	return c.client.Account().GetAccounts(budgetID, nil)
}

// FetchRecent returns the account's transactions from the last lookbackDays
// days, truncated to maxCount and adapted into the reconcile engine's view.
// Deleted transactions are skipped. Zero or negative bounds fall back to the
// defaults.
func (c *Client) FetchRecent(budgetID, accountID string, lookbackDays, maxCount int) ([]reconcile.Remote, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}

	since := api.Date{Time: time.Now().AddDate(0, 0, -lookbackDays)}
	filter := &transaction.Filter{Since: &since}

	txs, err := c.client.Transaction().GetTransactionsByAccount(budgetID, accountID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	window := make([]reconcile.Remote, 0, len(txs))
	for _, t := range txs {
		if t == nil || t.Deleted {
			continue
		}
		window = append(window, reconcile.Remote{
			Date:     t.Date.Format(models.DateLayout),
			Payee:    deref(t.PayeeName),
			Memo:     deref(t.Memo),
			Amount:   t.Amount,
			ImportID: deref(t.ImportID),
		})
		if len(window) == maxCount {
			break
		}
	}
	return window, nil
}

// Upload creates the transactions on the account in one best-effort call and
// returns how many were sent. There is no retry or rollback; the caller
// reports failures upward as-is.
func (c *Client) Upload(budgetID, accountID string, txs []models.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	payloads := make([]transaction.PayloadTransaction, 0, len(txs))
	for _, t := range txs {
		payee := t.Payee
		memo := t.Memo
		p := transaction.PayloadTransaction{
			AccountID: accountID,
			Date:      api.Date{Time: t.Date},
			Amount:    t.Milliunits(),
			PayeeName: &payee,
			Memo:      &memo,
		}
		if t.ImportID != "" {
			importID := t.ImportID
			p.ImportID = &importID
		}
		payloads = append(payloads, p)
	}

	if _, err := c.client.Transaction().CreateTransactions(budgetID, payloads); err != nil {
		return 0, fmt.Errorf("failed to create transactions: %w", err)
	}
	return len(payloads), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
