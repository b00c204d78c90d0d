package plan

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Plan is a YAML file describing the monthly budgets a ledger should have:
//
//	replace: false
//	budgets:
//	  Food: 300
//	  Rent: 1200
type Plan struct {
	Replace bool               `yaml:"replace"`
	Budgets map[string]float64 `yaml:"budgets"`
}

type Action string

const (
	Add    Action = "add"
	Update Action = "update"
	Remove Action = "remove"
	Keep   Action = "keep"
)

// Change is one line of the preview produced by Diff.
type Change struct {
	Category string
	Action   Action
	From     decimal.Decimal
	To       decimal.Decimal
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if len(p.Budgets) == 0 {
		return nil, fmt.Errorf("plan has no budgets")
	}
	for cat, limit := range p.Budgets {
		if strings.TrimSpace(cat) == "" {
			return nil, fmt.Errorf("plan has a budget without category")
		}
		if limit <= 0 {
			return nil, fmt.Errorf("budget %q must be greater than zero", cat)
		}
	}
	return &p, nil
}

// Limits returns the planned budgets as decimals.
func (p *Plan) Limits() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.Budgets))
	for cat, limit := range p.Budgets {
		out[strings.TrimSpace(cat)] = decimal.NewFromFloat(limit)
	}
	return out
}

// Diff compares the plan with the current budgets, ordered by category.
func (p *Plan) Diff(current map[string]decimal.Decimal) []Change {
	want := p.Limits()
	var changes []Change
	for cat, to := range want {
		from, ok := current[cat]
		switch {
		case !ok:
			changes = append(changes, Change{Category: cat, Action: Add, To: to})
		case !from.Equal(to):
			changes = append(changes, Change{Category: cat, Action: Update, From: from, To: to})
		default:
			changes = append(changes, Change{Category: cat, Action: Keep, From: from, To: to})
		}
	}
	if p.Replace {
		for cat, from := range current {
			if _, ok := want[cat]; !ok {
				changes = append(changes, Change{Category: cat, Action: Remove, From: from})
			}
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return strings.ToLower(changes[i].Category) < strings.ToLower(changes[j].Category)
	})
	return changes
}

// Print writes a human readable preview of changes.
func Print(w io.Writer, changes []Change) {
	for _, c := range changes {
		switch c.Action {
		case Add:
			fmt.Fprintf(w, "+ %s: %s\n", c.Category, c.To.StringFixed(2))
		case Update:
			fmt.Fprintf(w, "~ %s: %s -> %s\n", c.Category, c.From.StringFixed(2), c.To.StringFixed(2))
		case Remove:
			fmt.Fprintf(w, "- %s: %s\n", c.Category, c.From.StringFixed(2))
		default:
			fmt.Fprintf(w, "= %s: %s\n", c.Category, c.From.StringFixed(2))
		}
	}
}
