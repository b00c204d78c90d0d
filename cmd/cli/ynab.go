package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/csv"
	"github.com/yurifrl/tally/pkg/executors"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/ynab"
)

var ynabCmd = &cobra.Command{
	Use:   "ynab",
	Short: "Push the ledger to a YNAB account",
}

var ynabPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview which transactions would be created in YNAB (dry-run)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		exec, err := newYNABExecutor(cmd)
		if err != nil {
			return err
		}
		filter, err := cliFilters.toFilterFunc()
		if err != nil {
			return err
		}
		_, err = exec.Plan(filtered(filter))
		return err
	},
}

var ynabApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create the missing transactions in YNAB",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		exec, err := newYNABExecutor(cmd)
		if err != nil {
			return err
		}
		filter, err := cliFilters.toFilterFunc()
		if err != nil {
			return err
		}
		n, err := exec.Apply(filtered(filter))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d transaction(s) in YNAB\n", n)
		return nil
	},
}

func newYNABExecutor(cmd *cobra.Command) (*executors.Executor, error) {
	token := app.config.YNAB.Token()
	if token == "" {
		return nil, fmt.Errorf("no YNAB token, set %s", app.config.YNAB.TokenEnv)
	}
	return executors.New(app.logger, app.config, ynab.New(token), cmd.OutOrStdout()), nil
}

func filtered(filter csv.FilterFunc) []models.Transaction {
	return csv.Apply(app.session.Transactions(), filter)
}

func init() {
	ynabCmd.PersistentFlags().String("budget-id", "", "YNAB budget id")
	ynabCmd.PersistentFlags().String("account", "", "YNAB account id")
	ynabCmd.AddCommand(ynabPlanCmd, ynabApplyCmd)
}
