package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cliFilters filters
	cfgFile    string
	app        *App
)

var rootCmd = &cobra.Command{
	Use:           "tally",
	Short:         "Personal income and expense ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
	Annotations:   map[string]string{noSession: "true"},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations[noSession] == "true" {
			return nil
		}
		var err error
		app, err = newApp(cmd)
		return err
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is tally.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding transactions.json and settings.json")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.startDate, "start", "", "Start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.endDate, "end", "", "End date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.minAmount, "min", "", "Minimum amount")
	rootCmd.PersistentFlags().StringVar(&cliFilters.maxAmount, "max", "", "Maximum amount")
	rootCmd.PersistentFlags().StringVar(&cliFilters.category, "category", "", "Filter by category (case insensitive)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.kind, "type", "", "Filter by type (income or expense)")

	rootCmd.AddCommand(addCmd, deleteCmd, undoCmd, resetCmd, listCmd, showCmd)
	rootCmd.AddCommand(summaryCmd, monthCmd, dashboardCmd)
	rootCmd.AddCommand(budgetCmd, pinCmd)
	rootCmd.AddCommand(exportCmd, importCmd, ynabCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
