package parser

import (
	"strconv"
	"strings"

	"github.com/yurifrl/tally/pkg/models"
)

// columns maps header names to positions; the export order is the fallback.
type columns map[string]int

var exportColumns = columns{"id": 0, "date": 1, "type": 2, "amount": 3, "category": 4, "note": 5, "created_at": 6}

func headerColumns(row []string) (columns, bool) {
	cols := columns{}
	for i, cell := range row {
		cols[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	_, hasDate := cols["date"]
	_, hasAmount := cols["amount"]
	if !hasDate || !hasAmount {
		return nil, false
	}
	return cols, true
}

func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseLedgerRows converts rows laid out like the CSV export. Rows that fail
// validation are skipped. Rows without an id get one derived from the clock.
func (p *Parser) parseLedgerRows(rows [][]string) []models.Transaction {
	if len(rows) == 0 {
		return nil
	}
	cols := exportColumns
	start := 0
	if h, ok := headerColumns(rows[0]); ok {
		cols = h
		start = 1
	}

	out := make([]models.Transaction, 0, len(rows)-start)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(strings.Join(row, "")) == 0 {
			continue
		}
		if cols.get(row, "date") == "" {
			p.logger.Debug("skipping row without date", "line", i+1)
			continue
		}

		b := models.NewTransactionFromInput(cols.get(row, "type"), cols.get(row, "amount")).
			SetDate(cols.get(row, "date")).
			SetCategory(cols.get(row, "category")).
			SetNote(cols.get(row, "note")).
			SetCreatedAt(cols.get(row, "created_at")).
			SetClock(p.now)

		id, err := strconv.ParseInt(cols.get(row, "id"), 10, 64)
		if err != nil || id < 0 {
			id = 0
		}
		b.SetID(id)

		tx, err := b.Build()
		if err != nil {
			p.logger.Debug("skipping invalid row", "line", i+1, "err", err)
			continue
		}
		// Rows without a source id stay at zero so Import gives them a fresh one.
		tx.ID = id
		out = append(out, *tx)
	}
	return out
}
