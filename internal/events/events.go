// Package events publishes expense domain events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
)

// Type names a domain event. It doubles as the AMQP routing key.
type Type string

const (
	ExpenseCreated Type = "expense.created"
	ExpenseDeleted Type = "expense.deleted"
	ExpensesReset  Type = "expenses.reset"
)

// Event is a lightweight notification about a change to a user's expenses.
// Consumers fetch the full list from the API if they need it.
type Event struct {
	Type          Type             `json:"type"`
	UserID        string           `json:"user_id"`
	TransactionID string           `json:"transaction_id,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Category      models.Category  `json:"category,omitempty"`
	Count         int              `json:"count,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

// NewExpenseCreated describes a newly stored transaction.
func NewExpenseCreated(tx *models.Transaction) Event {
	amount := tx.Amount
	return Event{
		Type:          ExpenseCreated,
		UserID:        tx.UserID,
		TransactionID: tx.ID,
		Amount:        &amount,
		Category:      tx.Category,
		Timestamp:     time.Now(),
	}
}

// NewExpenseDeleted describes a removed transaction.
func NewExpenseDeleted(tx *models.Transaction) Event {
	e := NewExpenseCreated(tx)
	e.Type = ExpenseDeleted
	return e
}

// NewExpensesReset describes the removal of count transactions at once.
func NewExpensesReset(userID string, count int) Event {
	return Event{
		Type:      ExpensesReset,
		UserID:    userID,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event.
func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
