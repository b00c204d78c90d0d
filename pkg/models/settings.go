package models

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Settings holds the optional PIN lock and per-category monthly budgets.
type Settings struct {
	PINHash *string
	Budgets map[string]decimal.Decimal
}

// DefaultSettings is what a missing or unreadable settings file yields.
func DefaultSettings() Settings {
	return Settings{Budgets: map[string]decimal.Decimal{}}
}

// HasPIN reports whether a PIN lock is configured.
func (s Settings) HasPIN() bool {
	return s.PINHash != nil && *s.PINHash != ""
}

// Clone returns a deep copy so callers cannot mutate the session's map.
func (s Settings) Clone() Settings {
	out := Settings{Budgets: make(map[string]decimal.Decimal, len(s.Budgets))}
	if s.PINHash != nil {
		h := *s.PINHash
		out.PINHash = &h
	}
	for k, v := range s.Budgets {
		out.Budgets[k] = v
	}
	return out
}

// Budget is one configured monthly limit.
type Budget struct {
	Category string
	Limit    decimal.Decimal
}

// SortedBudgets lists budgets ordered by case-insensitive category name.
func (s Settings) SortedBudgets() []Budget {
	out := make([]Budget, 0, len(s.Budgets))
	for k, v := range s.Budgets {
		out = append(out, Budget{Category: k, Limit: v})
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
