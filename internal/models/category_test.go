package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCategoryIcon(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryFood, "utensils"},
		{CategorySalary, "money-bill-wave"},
		{CategoryShopping, "bag-shopping"},
		{CategoryOther, IconUnknown},
		{Category("Pets"), IconUnknown},
		{Category(""), IconUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := tt.category.Icon(); got != tt.want {
				t.Errorf("Icon() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryIsKnown(t *testing.T) {
	for _, c := range Categories() {
		if !c.IsKnown() {
			t.Errorf("expected %q to be known", c)
		}
	}
	if Category("salary").IsKnown() {
		t.Error("category matching is case sensitive")
	}
	if Category("Pets").IsKnown() {
		t.Error("expected Pets to be unknown")
	}
}

func TestTransactionSign(t *testing.T) {
	income := Transaction{Amount: decimal.NewFromInt(500)}
	expense := Transaction{Amount: decimal.NewFromFloat(-12.5)}

	if !income.IsIncome() || income.IsExpense() {
		t.Error("positive amount should be income only")
	}
	if !expense.IsExpense() || expense.IsIncome() {
		t.Error("negative amount should be expense only")
	}
}
