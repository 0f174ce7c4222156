package executors

import (
	"fmt"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/service"
)

// Apply converts every statement in the manifest and uploads the
// transactions that do not already exist on the remote ledger. Upload is a
// single best-effort call per statement; a failure aborts the run.
func (e *Executor) Apply(manifest *models.Manifest) error {
	e.logger.Debug("applying manifest", "statements", len(manifest.Statements))

	budgetID := manifest.YNAB.BudgetID
	if budgetID == "" {
		budgetID = e.config.BudgetID
	}

	for i := range manifest.Statements {
		statement := &manifest.Statements[i]
		localTxs, err := e.localTransactions(statement)
		if err != nil {
			return err
		}
		if statement.AccountID == "" {
			return fmt.Errorf("manifest error: statement %s missing account_id", statement.FilePath)
		}

		report, err := service.CheckDuplicates(e.ynab, e.cache, budgetID, statement.AccountID, localTxs, e.checkOptions())
		if err != nil {
			return err
		}

		toUpload := report.TransactionsToUpload()
		e.logger.Info("transactions to upload", "count", len(toUpload), "account_id", statement.AccountID)
		if len(toUpload) == 0 {
			continue
		}

		count, err := e.ynab.Upload(budgetID, statement.AccountID, toUpload)
		if err != nil {
			return err
		}
		// The account's remote window changed; drop the cached copy.
		e.cache.Invalidate(budgetID, statement.AccountID)
		e.logger.Info("uploaded transactions", "count", count, "account_id", statement.AccountID)
	}

	return nil
}
