package client

import (
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
)

// Kind is the button the user pressed on the entry form. It only decides the
// sign of the amount; the category stays the sole income/salary signal.
type Kind string

const (
	KindExpense    Kind = "expense"
	KindIncome     Kind = "income"
	KindAdditional Kind = "additional"
)

// Kinds lists the accepted kinds in form order.
func Kinds() []Kind {
	return []Kind{KindExpense, KindIncome, KindAdditional}
}

const (
	msgMissingFields = "Please add Expense Details and Category"
	msgInvalidAmount = "Please enter a valid amount"
)

// ExpenseInput is the body of a create request.
type ExpenseInput struct {
	Text     string          `json:"text"`
	Amount   decimal.Decimal `json:"amount"`
	Category models.Category `json:"category"`
}

// NewInput builds a signed ExpenseInput from raw form fields. Expenses are
// stored negative, income and additional income positive, whatever sign the
// user typed.
func NewInput(kind Kind, text, amount, category string) (ExpenseInput, error) {
	text = strings.TrimSpace(text)
	amount = strings.TrimSpace(amount)
	category = strings.TrimSpace(category)

	if text == "" || amount == "" || category == "" {
		return ExpenseInput{}, &ValidationError{Message: msgMissingFields}
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return ExpenseInput{}, &ValidationError{Message: msgInvalidAmount}
	}
	value = value.Round(2)
	if value.IsZero() {
		return ExpenseInput{}, &ValidationError{Message: msgInvalidAmount}
	}

	switch kind {
	case KindExpense:
		value = value.Abs().Neg()
	case KindIncome, KindAdditional:
		value = value.Abs()
	default:
		return ExpenseInput{}, &ValidationError{Message: "Unknown transaction kind " + string(kind)}
	}

	return ExpenseInput{Text: text, Amount: value, Category: models.Category(category)}, nil
}

// Validate re-checks an input that was not built by NewInput.
func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.Text) == "" || strings.TrimSpace(string(in.Category)) == "" {
		return &ValidationError{Message: msgMissingFields}
	}
	if in.Amount.Round(2).IsZero() {
		return &ValidationError{Message: msgInvalidAmount}
	}
	return nil
}
