package executors

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/reconcile"
	"github.com/yiorgosm/ynabex/pkg/service"
)

// Plan converts a single statement, checks it against the account's recent
// remote transactions and prints a human-readable preview. All matching is
// delegated to the reconcile engine; this is a thin, side-effecting wrapper.
func (e *Executor) Plan(statement *models.Statement) error {
	e.logger.Debug("planning statement", "file", statement.FilePath)

	localTxs, err := e.localTransactions(statement)
	if err != nil {
		return err
	}
	if statement.AccountID == "" {
		return fmt.Errorf("statement %s missing account_id", statement.FilePath)
	}

	report, err := service.CheckDuplicates(e.ynab, e.cache, e.config.BudgetID, statement.AccountID, localTxs, e.checkOptions())
	if err != nil {
		return err
	}

	e.logger.Debug("processing plan report",
		"total", len(report.Items), "duplicates", report.DuplicateCount(), "to_upload", report.UploadCount())

	dupStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))     // gray
	uploadStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green

	for _, item := range report.Items {
		line := fmt.Sprintf("%s | %-30s | %s EUR", item.Local.DateString(), item.Local.Payee, item.Local.AmountString())
		if item.Status == reconcile.Duplicate {
			fmt.Println(dupStyle.Render("= " + line))
			continue
		}
		fmt.Println(uploadStyle.Render("+ " + line))
	}

	if report.UploadCount() == 0 {
		fmt.Printf("\nPlan: all %d transaction(s) already exist on the ledger\n", report.DuplicateCount())
	} else {
		fmt.Printf("\nPlan: %d transaction(s) will be uploaded, %d already exist\n", report.UploadCount(), report.DuplicateCount())
	}

	return nil
}
