package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/yurifrl/tally/pkg/models"
)

// TopCategories is how many expense categories a month summary lists.
const TopCategories = 10

// MonthSummary is the monthly report: totals plus the biggest expense categories.
type MonthSummary struct {
	Year         int
	Month        int
	Count        int
	Totals       Totals
	TopExpenses  []CategoryTotal
	Transactions []models.Transaction
}

// Key returns the "YYYY-MM" label of the summary.
func (m MonthSummary) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

func MonthReport(txs []models.Transaction, year, month int) MonthSummary {
	subset := FilterMonth(txs, year, month)
	top := TotalsByCategory(subset, TypeFilter(models.Expense))
	if len(top) > TopCategories {
		top = top[:TopCategories]
	}
	return MonthSummary{
		Year:         year,
		Month:        month,
		Count:        len(subset),
		Totals:       ComputeTotals(subset),
		TopExpenses:  top,
		Transactions: subset,
	}
}

// MonthPoint is one month of the dashboard series.
type MonthPoint struct {
	Key string
	Totals
}

// MonthlySeries returns the totals of the n months ending with today's month,
// oldest first.
func MonthlySeries(txs []models.Transaction, today time.Time, n int) []MonthPoint {
	if n <= 0 {
		return nil
	}
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	out := make([]MonthPoint, 0, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i, 0)
		out = append(out, MonthPoint{
			Key:    m.Format("2006-01"),
			Totals: ComputeTotals(FilterMonth(txs, m.Year(), int(m.Month()))),
		})
	}
	return out
}

// SortHistory returns a copy ordered newest first by (date, created_at).
func SortHistory(txs []models.Transaction) []models.Transaction {
	out := append([]models.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// SortForExport returns a copy ordered oldest first by (date, created_at).
func SortForExport(txs []models.Transaction) []models.Transaction {
	out := append([]models.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}
