package main

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/models"
)

func TestFiltersToFilterFunc(t *testing.T) {
	f := &filters{minAmount: "10,5", kind: "expense", category: "foo"}
	fn, err := f.toFilterFunc()
	if err != nil {
		t.Fatal(err)
	}
	food := models.Transaction{Type: models.Expense, Amount: decimal.NewFromInt(11), Category: "Food"}
	if !fn(food) {
		t.Errorf("expected %+v to pass", food)
	}
	food.Amount = decimal.NewFromInt(10)
	if fn(food) {
		t.Errorf("expected amount under --min to be filtered out")
	}

	if fn, err := (&filters{}).toFilterFunc(); err != nil || fn != nil {
		t.Errorf("empty filters must produce no filter, got %v", err)
	}
	for _, bad := range []*filters{{minAmount: "ten"}, {startDate: "01/03/2024"}, {kind: "gift"}} {
		if _, err := bad.toFilterFunc(); err == nil {
			t.Errorf("expected error for %+v", bad)
		}
	}
}
