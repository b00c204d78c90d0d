package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/models"
)

type WarningLevel string

const (
	Near WarningLevel = "Near"
	Over WarningLevel = "Over"
)

var (
	hundred       = decimal.NewFromInt(100)
	nearThreshold = decimal.NewFromInt(80)
)

// BudgetWarning flags a category whose monthly spending reached 80% of its limit.
type BudgetWarning struct {
	Category string
	Spent    decimal.Decimal
	Limit    decimal.Decimal
	Percent  decimal.Decimal
	Level    WarningLevel
}

// BudgetWarnings checks the expenses of year/month against budgets.
// Budgets with a non-positive limit are ignored. Categories under 80% produce
// no entry. The result is ordered by case-insensitive category name.
func BudgetWarnings(txs []models.Transaction, budgets map[string]decimal.Decimal, year, month int) []BudgetWarning {
	spent := TotalsByCategory(FilterMonth(txs, year, month), TypeFilter(models.Expense))

	out := make([]BudgetWarning, 0)
	for cat, limit := range budgets {
		if !limit.IsPositive() {
			continue
		}
		used := Lookup(spent, cat)
		pct := used.Div(limit).Mul(hundred)

		var level WarningLevel
		switch {
		case pct.GreaterThanOrEqual(hundred):
			level = Over
		case pct.GreaterThanOrEqual(nearThreshold):
			level = Near
		default:
			continue
		}
		out = append(out, BudgetWarning{Category: cat, Spent: used, Limit: limit, Percent: pct, Level: level})
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i].Category), strings.ToLower(out[j].Category)
		if li != lj {
			return li < lj
		}
		return out[i].Category < out[j].Category
	})
	return out
}
