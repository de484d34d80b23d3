package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
	"expensetracker/internal/report"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// ExpenseServicer defines the contract for a user's transaction list.
// Mutations return the full post-mutation list in creation order.
type ExpenseServicer interface {
	ListExpenses(userID string) ([]models.Transaction, error)
	AddExpense(ctx context.Context, userID, text string, amount decimal.Decimal, category models.Category) (*models.Transaction, []models.Transaction, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) (*models.Transaction, []models.Transaction, error)
	DeleteAllExpenses(ctx context.Context, userID string) (int64, error)
	Summary(userID string) (report.Summary, error)
	MonthReport(userID string, year int, month time.Month, loc *time.Location) (report.MonthReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
