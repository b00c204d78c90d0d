package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/report"
)

// Header is the first row of every export.
var Header = []string{"id", "date", "type", "amount", "category", "note", "created_at"}

type FilterFunc func(models.Transaction) bool

// Row renders one record in Header order.
func Row(t models.Transaction) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Date,
		string(t.Type),
		t.Amount.String(),
		t.Category,
		t.Note,
		t.CreatedAt,
	}
}

// Write streams the records oldest first by (date, created_at).
func Write(w io.Writer, records []models.Transaction, filter FilterFunc) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range report.SortForExport(records) {
		if filter != nil && !filter(r) {
			continue
		}
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Create is Write into memory.
func Create(records []models.Transaction, filter FilterFunc) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, records, filter); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
