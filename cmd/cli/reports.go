package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals, savings rating and category breakdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		txs := app.session.Transactions()
		totals := report.ComputeTotals(txs)

		printTotals(out, totals)
		printRating(out, report.RatingFromNet(totals.Net))
		printCategories(out, "Income by category", report.TotalsByCategory(txs, report.TypeFilter(models.Income)))
		printCategories(out, "Expenses by category", report.TotalsByCategory(txs, report.TypeFilter(models.Expense)))
		return nil
	},
}

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Monthly report with the top expense categories",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		when := app.session.Now()
		if len(args) == 1 {
			var err error
			if when, err = time.Parse("2006-01", args[0]); err != nil {
				return fmt.Errorf("invalid month %q, use YYYY-MM", args[0])
			}
		}
		m := report.MonthReport(app.session.Transactions(), when.Year(), int(when.Month()))

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Report for "+m.Key()))
		fmt.Fprintf(out, "%d transaction(s)\n", m.Count)
		printTotals(out, m.Totals)
		printCategories(out, fmt.Sprintf("Top %d expense categories", report.TopCategories), m.TopExpenses)
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Overview with budget warnings and the last twelve months",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		now := app.session.Now()
		txs := app.session.Transactions()
		totals := report.ComputeTotals(txs)

		printTotals(out, totals)
		printRating(out, report.RatingFromNet(totals.Net))

		warnings := report.BudgetWarnings(txs, app.session.Settings().Budgets, now.Year(), int(now.Month()))
		fmt.Fprintln(out, titleStyle.Render("Budgets this month"))
		if len(warnings) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("  all budgets under 80%"))
		}
		for _, w := range warnings {
			style := warnStyle
			if w.Level == report.Over {
				style = expenseStyle
			}
			fmt.Fprintln(out, style.Render(fmt.Sprintf("  %-5s %-20s %s / %s (%s%%)",
				w.Level, w.Category, w.Spent.StringFixed(2), w.Limit.StringFixed(2), w.Percent.StringFixed(0))))
		}

		fmt.Fprintln(out, titleStyle.Render("Last 12 months"))
		for _, p := range report.MonthlySeries(txs, now, 12) {
			fmt.Fprintf(out, "  %s  %s  %s  %s\n", p.Key,
				incomeStyle.Render(fmt.Sprintf("%12s", p.Income.StringFixed(2))),
				expenseStyle.Render(fmt.Sprintf("%12s", p.Expenses.StringFixed(2))),
				fmt.Sprintf("%12s", p.Net.StringFixed(2)))
		}
		return nil
	},
}

func printTotals(w io.Writer, t report.Totals) {
	fmt.Fprintf(w, "Income:   %s\n", incomeStyle.Render(t.Income.StringFixed(2)))
	fmt.Fprintf(w, "Expenses: %s\n", expenseStyle.Render(t.Expenses.StringFixed(2)))
	fmt.Fprintf(w, "Net:      %s\n", t.Net.StringFixed(2))
}

func printRating(w io.Writer, r report.Rating) {
	style := incomeStyle
	switch r.Label {
	case report.LabelAverage:
		style = warnStyle
	case report.LabelPoor:
		style = expenseStyle
	}
	fmt.Fprintf(w, "Rating:   %s %d/10, %s\n", style.Render(r.Label), r.Points, r.Message)
}

func printCategories(w io.Writer, title string, totals []report.CategoryTotal) {
	fmt.Fprintln(w, titleStyle.Render(title))
	if len(totals) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none"))
		return
	}
	for _, c := range totals {
		fmt.Fprintf(w, "  %-20s %12s\n", c.Category, c.Amount.StringFixed(2))
	}
}
