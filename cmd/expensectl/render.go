package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
	"expensetracker/internal/report"
)

// Terminal stand-ins for the icon names on models.Category.
var iconGlyphs = map[string]string{
	"utensils":          "🍴",
	"house":             "🏠",
	"money-bill-wave":   "💵",
	"car":               "🚗",
	"film":              "🎬",
	"briefcase-medical": "💊",
	"bolt":              "⚡",
	"bag-shopping":      "🛍",
	models.IconUnknown:  "❓",
}

func categoryIcon(c models.Category) string {
	if glyph, ok := iconGlyphs[c.Icon()]; ok {
		return glyph
	}
	return iconGlyphs[models.IconUnknown]
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func renderTransactions(w io.Writer, txs []models.Transaction, loc *time.Location) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\t\tCATEGORY\tTEXT\tAMOUNT")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID,
			tx.CreatedAt.In(loc).Format("2006-01-02"),
			categoryIcon(tx.Category),
			tx.Category,
			tx.Text,
			money(tx.Amount),
		)
	}
	_ = tw.Flush()
}

// renderShare prints one plain "text: amount (category)" line per
// transaction, ready to paste into a message.
func renderShare(w io.Writer, txs []models.Transaction) {
	for _, tx := range txs {
		fmt.Fprintf(w, "%s: %s (%s)\n", tx.Text, tx.Amount.String(), tx.Category)
	}
}

func renderTotals(w io.Writer, t report.Totals) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Income\t%s\n", money(t.Income))
	fmt.Fprintf(tw, "Expense\t%s\n", money(t.Expense))
	fmt.Fprintf(tw, "Balance\t%s\n", money(t.Net))
	_ = tw.Flush()
}

func renderBreakdown(w io.Writer, b report.Breakdown) {
	categories := make([]models.Category, 0, len(b))
	for c := range b {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range categories {
		name := string(c)
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", categoryIcon(c), name, money(b[c]))
	}
	_ = tw.Flush()
}

func renderSummary(w io.Writer, s report.Summary) {
	renderTotals(w, s.Totals)
	fmt.Fprintf(w, "\nMonthly income:    %s\n", money(s.Monthly))
	fmt.Fprintf(w, "Additional income: %s\n", money(s.Additional))
	if len(s.Categories) == 0 {
		fmt.Fprintln(w, "\nNo transactions yet.")
		return
	}
	fmt.Fprintf(w, "\nBy category (%d transactions):\n", s.Count)
	renderBreakdown(w, s.Categories)
}

func renderMonth(w io.Writer, r report.MonthReport, loc *time.Location) {
	fmt.Fprintf(w, "%s %d\n\n", r.Month, r.Year)
	renderTotals(w, r.Totals)
	if !r.HasExpenses() {
		fmt.Fprintln(w, "\nNo expenses for this month.")
	} else {
		fmt.Fprintln(w, "\nExpenses by category:")
		renderBreakdown(w, r.Expenses)
	}
	if len(r.Transactions) > 0 {
		fmt.Fprintln(w)
		renderTransactions(w, r.Transactions, loc)
	}
}
