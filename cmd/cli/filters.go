package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/csv"
)

type filters struct {
	startDate string
	endDate   string
	minAmount string
	maxAmount string
	category  string
	kind      string
}

func (f *filters) toFilterFunc() (csv.FilterFunc, error) {
	out := csv.Filters{
		Start:    f.startDate,
		End:      f.endDate,
		Category: f.category,
		Type:     f.kind,
	}
	var err error
	if out.Min, err = parseAmountFlag("min", f.minAmount); err != nil {
		return nil, err
	}
	if out.Max, err = parseAmountFlag("max", f.maxAmount); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out.Func(), nil
}

func parseAmountFlag(name, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return d, nil
}
