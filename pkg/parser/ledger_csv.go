package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yurifrl/tally/pkg/models"
)

// ParseLedgerCSV reads a file produced by the CSV export (or any CSV with at
// least date and amount columns) so it can be imported into another ledger.
func (p *Parser) ParseLedgerCSV(data []byte) ([]models.Transaction, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // validated per row

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}
	return p.parseLedgerRows(records), nil
}
