// Package report derives summaries from a snapshot of the ledger.
//
// Every function here is pure: it reads the slice it is given and never
// modifies it. Results are recomputed on demand and never persisted.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/models"
)

// Totals is the income/expense balance of a set of records.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// ComputeTotals sums income and expenses. Net is always Income - Expenses.
func ComputeTotals(txs []models.Transaction) Totals {
	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case models.Income:
			income = income.Add(t.Amount)
		case models.Expense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return Totals{Income: income, Expenses: expenses, Net: income.Sub(expenses)}
}

// CategoryTotal is one entry of TotalsByCategory.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// TotalsByCategory sums amounts per category label, optionally keeping only
// one transaction type.
//
// Labels are grouped exactly as written ("Food" and "food" are different
// categories). The result is ordered by amount descending; equal amounts are
// ordered by case-insensitive name.
func TotalsByCategory(txs []models.Transaction, only *models.Type) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if only != nil && t.Type != *only {
			continue
		}
		cat := t.CategoryOrDefault()
		sums[cat] = sums[cat].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for cat, amount := range sums {
		out = append(out, CategoryTotal{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		li, lj := strings.ToLower(out[i].Category), strings.ToLower(out[j].Category)
		if li != lj {
			return li < lj
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TypeFilter is a convenience for the optional argument of TotalsByCategory.
func TypeFilter(t models.Type) *models.Type {
	return &t
}

// Lookup returns the amount for category, or zero when absent.
func Lookup(totals []CategoryTotal, category string) decimal.Decimal {
	for _, ct := range totals {
		if ct.Category == category {
			return ct.Amount
		}
	}
	return decimal.Zero
}

// MonthPrefix is the date prefix FilterMonth matches, e.g. "2024-03-".
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d-", year, month)
}

// FilterMonth keeps the records whose date string starts with "YYYY-MM-".
//
// This is a plain text prefix test. Dates are not parsed, so "2024-3-01" never
// matches March 2024 while a malformed "2024-03-xx" does.
func FilterMonth(txs []models.Transaction, year, month int) []models.Transaction {
	prefix := MonthPrefix(year, month)
	out := make([]models.Transaction, 0)
	for _, t := range txs {
		if strings.HasPrefix(t.Date, prefix) {
			out = append(out, t)
		}
	}
	return out
}
