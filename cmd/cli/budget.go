package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/plan"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage monthly spending limits per category",
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <category> <limit>",
	Short: "Set or change the limit of a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(args[1]), ",", "."))
		if err != nil {
			return fmt.Errorf("invalid limit %q", args[1])
		}
		if err := app.session.SetBudget(args[0], limit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s set to %s\n", strings.TrimSpace(args[0]), limit.StringFixed(2))
		return nil
	},
}

var budgetRemoveCmd = &cobra.Command{
	Use:   "remove <category>",
	Short: "Remove the limit of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.session.RemoveBudget(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s removed\n", strings.TrimSpace(args[0]))
		return nil
	},
}

var budgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		budgets := app.session.Budgets()
		if len(budgets) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("No budgets"))
			return nil
		}
		for _, b := range budgets {
			fmt.Fprintf(out, "%-20s %12s\n", b.Category, b.Limit.StringFixed(2))
		}
		return nil
	},
}

var budgetDryRun bool

var budgetApplyCmd = &cobra.Command{
	Use:   "apply <plan.yaml>",
	Short: "Bring budgets in line with a YAML plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}
		changes := p.Diff(app.session.Settings().Budgets)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Plan preview for %s\n", args[0])
		plan.Print(out, changes)
		if budgetDryRun {
			return nil
		}

		var remove []string
		for _, c := range changes {
			if c.Action == plan.Remove {
				remove = append(remove, c.Category)
			}
		}
		if err := app.session.SetBudgets(p.Limits(), remove...); err != nil {
			return err
		}
		fmt.Fprintf(out, "Applied %d budget(s), removed %d\n", len(p.Budgets), len(remove))
		return nil
	},
}

func init() {
	budgetApplyCmd.Flags().BoolVar(&budgetDryRun, "dry-run", false, "Only print the changes")
	budgetCmd.AddCommand(budgetSetCmd, budgetRemoveCmd, budgetListCmd, budgetApplyCmd)
}
