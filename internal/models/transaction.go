package models

import "github.com/shopspring/decimal"

// Transaction is a single signed money movement. A positive Amount is income,
// a negative Amount is an expense. Transactions are never edited in place.
type Transaction struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Text     string          `gorm:"not null" json:"text"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category Category        `gorm:"not null" json:"category"`
}

// IsIncome reports whether the transaction adds money.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the transaction removes money.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}
