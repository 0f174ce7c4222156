// Package executors implements the plan (preview) and apply (upload) flows
// over manifests of statements.
package executors

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yiorgosm/ynabex/pkg/config"
	"github.com/yiorgosm/ynabex/pkg/export"
	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/reconcile"
	"github.com/yiorgosm/ynabex/pkg/service"
	"github.com/yiorgosm/ynabex/pkg/ynab"
)

type Executor struct {
	logger    *log.Logger
	config    *config.Config
	ynab      *ynab.Client
	converter *service.Converter
	cache     *reconcile.Cache
}

func New(logger *log.Logger, cfg *config.Config, client *ynab.Client) *Executor {
	return &Executor{
		logger:    logger,
		config:    cfg,
		ynab:      client,
		converter: service.NewConverter(logger),
		cache:     reconcile.NewCache(),
	}
}

// localTransactions converts a statement and, when the statement names a
// previous export, drops the transactions already written to it.
func (e *Executor) localTransactions(statement *models.Statement) ([]models.Transaction, error) {
	txs, err := statement.Transactions(e.converter)
	if err != nil {
		return nil, err
	}

	if statement.Previous != "" {
		prevData, err := os.ReadFile(statement.Previous)
		if err != nil {
			return nil, fmt.Errorf("failed to read previous export %s: %w", statement.Previous, err)
		}
		prev, err := export.ReadPrevious(prevData)
		if err != nil {
			return nil, err
		}
		txs = reconcile.ExcludeExisting(txs, prev, reconcile.LocalOptions{})
	}
	return txs, nil
}

func (e *Executor) checkOptions() service.CheckOptions {
	return service.CheckOptions{
		LookbackDays:  e.config.LookbackDays,
		MaxCount:      e.config.MaxCount,
		MemoPrefixLen: e.config.MemoPrefixLen,
	}
}
