package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/xlsx"
)

// maxXLSRows bounds how much of the first sheet is read.
const maxXLSRows = 100000

// ParseLedgerXLS reads a legacy Excel sheet laid out like the CSV export.
func (p *Parser) ParseLedgerXLS(data []byte) (txs []models.Transaction, err error) {
	// extrame/xls panics on some truncated workbooks.
	defer func() {
		if r := recover(); r != nil {
			txs, err = nil, fmt.Errorf("error reading workbook: %v", r)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}
	return p.parseLedgerRows(rows), nil
}

// ParseLedgerXLSX reads a workbook written by the xlsx export, or any
// workbook whose first sheet uses the same columns.
func (p *Parser) ParseLedgerXLSX(data []byte) ([]models.Transaction, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheet := xlsx.SheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}
	p.logger.Debug("read workbook", "sheet", sheet, "rows", len(rows))
	return p.parseLedgerRows(rows), nil
}
