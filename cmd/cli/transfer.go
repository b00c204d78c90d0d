package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/csv"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/service"
	"github.com/yurifrl/tally/pkg/store"
	"github.com/yurifrl/tally/pkg/xlsx"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.csv|file.xlsx]",
	Short: "Export transactions oldest first (stdout CSV when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := cliFilters.toFilterFunc()
		if err != nil {
			return err
		}
		txs := app.session.Transactions()
		if len(args) == 0 || args[0] == "-" {
			return csv.Write(cmd.OutOrStdout(), txs, filter)
		}

		path := args[0]
		var write func(io.Writer, []models.Transaction, csv.FilterFunc) error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			write = csv.Write
		case ".xlsx":
			write = xlsx.Write
		default:
			return fmt.Errorf("unsupported export format %q, use .csv or .xlsx", filepath.Ext(path))
		}

		if err := store.WriteAtomic(path, 0o644, func(w io.Writer) error {
			return write(w, txs, filter)
		}); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import CSV/XLS exports or bank statements (.txt); known ids are skipped",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		processor := service.NewProcessor(app.logger, app.session)
		out := cmd.OutOrStdout()

		failed := 0
		for _, arg := range args {
			results, err := processor.ImportPath(arg)
			if err != nil {
				return err
			}
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintln(out, expenseStyle.Render(fmt.Sprintf("%s: %v", r.Path, r.Err)))
					continue
				}
				fmt.Fprintf(out, "%s: %d parsed, %d added, %d already present\n", r.Path, r.Parsed, r.Added, r.Parsed-r.Added)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d file(s) could not be imported", failed)
		}
		return nil
	},
}
