package executors

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/tally/pkg/models"
)

var (
	syncedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	addedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
)

func (e *Executor) target() (string, string, error) {
	budgetID, accountID := e.config.YNAB.BudgetID, e.config.YNAB.AccountID
	if budgetID == "" || accountID == "" {
		return "", "", errors.New("ynab.budget_id and ynab.account_id must be configured")
	}
	return budgetID, accountID, nil
}

func (e *Executor) report(local []models.Transaction) (*Report, error) {
	budgetID, accountID, err := e.target()
	if err != nil {
		return nil, err
	}
	remote, err := e.ynab.Transactions(budgetID, accountID)
	if err != nil {
		return nil, err
	}
	return BuildReport(local, remote, e.config.UseCustomID), nil
}

// Plan prints which ledger transactions are already in YNAB and which would be
// created by Apply.
func (e *Executor) Plan(local []models.Transaction) (*Report, error) {
	report, err := e.report(local)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("processing plan report", "total", len(report.Items), "in_sync", report.InSyncCount(), "to_add", report.MissingCount())

	for _, m := range report.Items {
		remoteID := "xxxxxxxxxxxxx"
		style, mark := addedStyle, "+ "
		if m.Status == Synced {
			remoteID = m.RemoteCustomID()
			style, mark = syncedStyle, "= "
		}
		line := fmt.Sprintf("%s | %-20s | %d | %s | %s %s",
			m.Local.Date, m.Local.CategoryOrDefault(), m.Local.ID, remoteID, m.Local.Type, m.Local.Amount.StringFixed(2))
		fmt.Fprintln(e.out, style.Render(mark+line))
	}

	if report.MissingCount() == 0 {
		fmt.Fprintf(e.out, "\nPlan: All %d transaction(s) are in sync\n", report.InSyncCount())
	} else {
		fmt.Fprintf(e.out, "\nPlan: %d transaction(s) will be added, %d already in sync\n", report.MissingCount(), report.InSyncCount())
	}
	return report, nil
}
