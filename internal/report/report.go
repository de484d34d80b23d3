// Package report derives income, expense and category statistics from a
// snapshot of transactions. Every function is pure: results are recomputed
// from the slice passed in and nothing is cached between calls.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
)

// Totals holds the income/expense summary of a set of transactions.
// Income and Expense are both non-negative; Net = Income - Expense.
type Totals struct {
	Income  decimal.Decimal `json:"total_income"`
	Expense decimal.Decimal `json:"total_expense"`
	Net     decimal.Decimal `json:"net_balance"`
}

// IncomeSplit partitions positive amounts by whether they are salary.
// Monthly + Additional always equals Totals.Income over the same input.
type IncomeSplit struct {
	Monthly    decimal.Decimal `json:"monthly_income"`
	Additional decimal.Decimal `json:"additional_income"`
}

// Breakdown maps a category to an aggregated amount. Categories are kept
// verbatim, including unknown and empty ones.
type Breakdown map[models.Category]decimal.Decimal

// Summary is the all-time report.
type Summary struct {
	Totals
	IncomeSplit
	Categories Breakdown `json:"category_breakdown"`
	Count      int       `json:"transaction_count"`
}

// MonthReport is the report for a single calendar month.
type MonthReport struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Totals
	Expenses     Breakdown            `json:"expense_breakdown"`
	Transactions []models.Transaction `json:"transactions"`
}

// HasExpenses reports whether the month has anything to break down.
func (r MonthReport) HasExpenses() bool {
	return len(r.Expenses) > 0
}

// ComputeTotals sums income and expense amounts.
func ComputeTotals(txs []models.Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch {
		case tx.IsIncome():
			income = income.Add(tx.Amount)
		case tx.IsExpense():
			expense = expense.Add(tx.Amount.Abs())
		}
	}
	return Totals{Income: income, Expense: expense, Net: income.Sub(expense)}
}

// SplitIncome separates salary income from everything else that is positive.
func SplitIncome(txs []models.Transaction) IncomeSplit {
	split := IncomeSplit{Monthly: decimal.Zero, Additional: decimal.Zero}
	for _, tx := range txs {
		if !tx.IsIncome() {
			continue
		}
		if tx.Category == models.CategorySalary {
			split.Monthly = split.Monthly.Add(tx.Amount)
		} else {
			split.Additional = split.Additional.Add(tx.Amount)
		}
	}
	return split
}

// CategoryBreakdown returns the net signed sum per category. A positive value
// means the category nets to income.
func CategoryBreakdown(txs []models.Transaction) Breakdown {
	out := Breakdown{}
	for _, tx := range txs {
		out[tx.Category] = out.get(tx.Category).Add(tx.Amount)
	}
	return out
}

// ExpenseBreakdown returns the absolute expense total per category. Income is
// ignored, so categories with only income do not appear.
func ExpenseBreakdown(txs []models.Transaction) Breakdown {
	out := Breakdown{}
	for _, tx := range txs {
		if tx.IsExpense() {
			out[tx.Category] = out.get(tx.Category).Add(tx.Amount.Abs())
		}
	}
	return out
}

func (b Breakdown) get(c models.Category) decimal.Decimal {
	if v, ok := b[c]; ok {
		return v
	}
	return decimal.Zero
}

// Sum adds every value in the breakdown.
func (b Breakdown) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// InMonth selects the transactions created within the given calendar month,
// evaluated in loc. The input order is preserved.
func InMonth(txs []models.Transaction, year int, month time.Month, loc *time.Location) []models.Transaction {
	if loc == nil {
		loc = time.Local
	}
	out := []models.Transaction{}
	for _, tx := range txs {
		y, m, _ := tx.CreatedAt.In(loc).Date()
		if y == year && m == month {
			out = append(out, tx)
		}
	}
	return out
}

// Summarize builds the all-time report.
func Summarize(txs []models.Transaction) Summary {
	return Summary{
		Totals:      ComputeTotals(txs),
		IncomeSplit: SplitIncome(txs),
		Categories:  CategoryBreakdown(txs),
		Count:       len(txs),
	}
}

// ForMonth builds the report for one calendar month. month is 1-indexed.
func ForMonth(txs []models.Transaction, year int, month time.Month, loc *time.Location) (MonthReport, error) {
	if month < time.January || month > time.December {
		return MonthReport{}, fmt.Errorf("month %d out of range 1-12", month)
	}
	selected := InMonth(txs, year, month, loc)
	return MonthReport{
		Year:         year,
		Month:        month,
		Totals:       ComputeTotals(selected),
		Expenses:     ExpenseBreakdown(selected),
		Transactions: selected,
	}, nil
}

// ParseMonth parses a "YYYY-MM" month selector.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}

// CurrentMonth returns the year and month of now in loc.
func CurrentMonth(now time.Time, loc *time.Location) (int, time.Month) {
	if loc == nil {
		loc = time.Local
	}
	y, m, _ := now.In(loc).Date()
	return y, m
}
