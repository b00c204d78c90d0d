package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/csv"
	"github.com/yurifrl/tally/pkg/ledger"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/report"
)

var addOpts struct {
	income bool
	date   string
	note   string
}

var addCmd = &cobra.Command{
	Use:   "add <amount> [category]",
	Short: "Record an expense (or income with --income)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := string(models.Expense)
		if addOpts.income {
			kind = string(models.Income)
		}
		category := ""
		if len(args) > 1 {
			category = args[1]
		}
		tx, err := app.session.Add(models.NewTransactionFromInput(kind, args[0]).
			SetDate(addOpts.date).
			SetCategory(category).
			SetNote(addOpts.note))
		if err != nil && !errors.Is(err, ledger.ErrNotSaved) {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", describe(tx))
		return err
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.session.Delete(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the most recently added transaction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tx, err := app.session.Undo()
		if errors.Is(err, ledger.ErrEmptyLedger) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo")
			return nil
		}
		if err != nil && !errors.Is(err, ledger.ErrNotSaved) {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", describe(tx))
		return err
	},
}

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every transaction (budgets and PIN are kept)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !resetYes && !app.confirm("Delete ALL transactions?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		if err := app.session.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All transactions deleted")
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the history, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter, err := cliFilters.toFilterFunc()
		if err != nil {
			return err
		}
		txs := report.SortHistory(csv.Apply(app.session.Transactions(), filter))
		printTransactions(cmd.OutOrStdout(), txs)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Dump a single transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		tx, err := app.session.Find(id)
		if err != nil {
			return err
		}
		_, err = pp.Fprintln(cmd.OutOrStdout(), tx)
		return err
	},
}

func init() {
	addCmd.Flags().BoolVarP(&addOpts.income, "income", "i", false, "Record income instead of an expense")
	addCmd.Flags().StringVarP(&addOpts.date, "date", "d", "", "Date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVarP(&addOpts.note, "note", "n", "", "Free text note")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func amountStyle(t models.Transaction) string {
	s := fmt.Sprintf("%12s", t.Signed().StringFixed(2))
	if t.Type == models.Income {
		return incomeStyle.Render(s)
	}
	return expenseStyle.Render(s)
}

func describe(t models.Transaction) string {
	return fmt.Sprintf("%s %s %s on %s (id %d)", t.Type, t.Amount.StringFixed(2), t.CategoryOrDefault(), t.Date, t.ID)
}

func printTransactions(w io.Writer, txs []models.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No transactions"))
		return
	}
	for _, t := range txs {
		fmt.Fprintf(w, "%-14d %s %s  %-20s %s\n", t.ID, t.Date, amountStyle(t), t.CategoryOrDefault(), mutedStyle.Render(t.Note))
	}
	totals := report.ComputeTotals(txs)
	fmt.Fprintf(w, "\n%d transaction(s), income %s, expenses %s, net %s\n",
		len(txs), totals.Income.StringFixed(2), totals.Expenses.StringFixed(2), totals.Net.StringFixed(2))
}
