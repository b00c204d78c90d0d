// Package xlsx writes the ledger as an Excel workbook with the same columns
// as the CSV export.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/tally/pkg/csv"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/report"
)

const SheetName = "Transactions"

// Write renders records oldest first, amounts as numbers.
func Write(w io.Writer, records []models.Transaction, filter csv.FilterFunc) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(csv.Header))
	for i, h := range csv.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, t := range report.SortForExport(records) {
		if filter != nil && !filter(t) {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []interface{}{
			t.ID,
			t.Date,
			string(t.Type),
			t.Amount.InexactFloat64(),
			t.Category,
			t.Note,
			t.CreatedAt,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", t.ID, err)
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
