package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"expensetracker/internal/events"
	"expensetracker/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestExpense creates a transaction with the given signed amount.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, amount string, category models.Category) *models.Transaction {
	t.Helper()
	return CreateTestExpenseAt(t, db, userID, amount, category, time.Now())
}

// CreateTestExpenseAt creates a transaction with an explicit creation time.
func CreateTestExpenseAt(t *testing.T, db *gorm.DB, userID, amount string, category models.Category, createdAt time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Base:     models.Base{CreatedAt: createdAt},
		UserID:   userID,
		Text:     fmt.Sprintf("Test transaction %d", nextID()),
		Amount:   decimal.RequireFromString(amount),
		Category: category,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// RecordingPublisher collects published events. Err, when set, is returned
// from every Publish call after the event is recorded.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}
