package csv

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/models"
)

// Filters narrows an export or listing. Zero values disable a criterion.
type Filters struct {
	Start    string // YYYY-MM-DD, inclusive
	End      string // YYYY-MM-DD, inclusive
	Min      decimal.Decimal
	Max      decimal.Decimal
	Category string // case-insensitive substring
	Type     string
}

// Validate checks dates and type so a typo does not silently filter everything out.
func (f Filters) Validate() error {
	for _, d := range []string{f.Start, f.End} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return fmt.Errorf("invalid filter date %q: %w", d, models.ErrInvalidDate)
		}
	}
	if f.Type != "" {
		if _, err := models.ParseType(f.Type); err != nil {
			return err
		}
	}
	return nil
}

// Func returns the filter as a FilterFunc, or nil when nothing is set.
func (f Filters) Func() FilterFunc {
	if f.empty() {
		return nil
	}
	category := strings.ToLower(strings.TrimSpace(f.Category))
	kind := models.Type(strings.ToLower(strings.TrimSpace(f.Type)))
	return func(t models.Transaction) bool {
		// ISO dates compare correctly as strings.
		if f.Start != "" && t.Date < f.Start {
			return false
		}
		if f.End != "" && t.Date > f.End {
			return false
		}
		if !f.Min.IsZero() && t.Amount.LessThan(f.Min) {
			return false
		}
		if !f.Max.IsZero() && t.Amount.GreaterThan(f.Max) {
			return false
		}
		if category != "" && !strings.Contains(strings.ToLower(t.Category), category) {
			return false
		}
		if kind != "" && t.Type != kind {
			return false
		}
		return true
	}
}

func (f Filters) empty() bool {
	return f.Start == "" && f.End == "" && f.Min.IsZero() && f.Max.IsZero() &&
		strings.TrimSpace(f.Category) == "" && strings.TrimSpace(f.Type) == ""
}

// Apply returns the records accepted by filter, in their original order.
func Apply(records []models.Transaction, filter FilterFunc) []models.Transaction {
	if filter == nil {
		return records
	}
	out := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		if filter(r) {
			out = append(out, r)
		}
	}
	return out
}
