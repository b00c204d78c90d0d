package executors

import (
	"github.com/yurifrl/tally/pkg/models"
)

// Apply creates in YNAB every ledger transaction that is not there yet and
// returns how many were created.
func (e *Executor) Apply(local []models.Transaction) (int, error) {
	e.logger.Debug("applying ledger", "transactions", len(local))

	report, err := e.report(local)
	if err != nil {
		return 0, err
	}
	e.logger.Info("transactions to create", "count", report.MissingCount(), "account_id", e.config.YNAB.AccountID)
	if report.MissingCount() == 0 {
		return 0, nil
	}

	batch, err := report.Payloads(e.config.YNAB.AccountID)
	if err != nil {
		return 0, err
	}
	if err := e.ynab.CreateTransactions(e.config.YNAB.BudgetID, batch); err != nil {
		return 0, err
	}
	e.logger.Info("created transactions", "count", len(batch), "account_id", e.config.YNAB.AccountID)
	return len(batch), nil
}
