package testutil_test

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/events"
	"expensetracker/internal/models"
	"expensetracker/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "transactions", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	tx := testutil.CreateTestExpense(t, db, user.ID, "-42.50", models.CategoryFood)
	if tx.ID == "" || tx.UserID != user.ID {
		t.Errorf("unexpected transaction: %+v", tx)
	}
	if tx.Amount.String() != "-42.5" {
		t.Errorf("expected amount -42.5, got %s", tx.Amount)
	}

	at := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
	dated := testutil.CreateTestExpenseAt(t, db, user.ID, "100", models.CategorySalary, at)
	if !dated.CreatedAt.Equal(at) {
		t.Errorf("expected created_at %v, got %v", at, dated.CreatedAt)
	}
}

func TestRecordingPublisher(t *testing.T) {
	p := &testutil.RecordingPublisher{Err: errors.New("broker down")}
	err := p.Publish(context.Background(), events.NewExpensesReset("u", 2))
	if err == nil {
		t.Error("expected configured error")
	}
	if got := p.Events(); len(got) != 1 || got[0].Type != events.ExpensesReset {
		t.Errorf("unexpected events: %+v", got)
	}
}

func TestAssertAppError(t *testing.T) {
	err := apperrors.WithMessage(apperrors.ErrTransactionNotFound, "custom message")
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
