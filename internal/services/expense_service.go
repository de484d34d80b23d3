package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/events"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/report"
	"expensetracker/internal/uuid"
)

const (
	maxTextLength     = 200
	maxCategoryLength = 50
)

// expenseService handles a user's transaction list.
type expenseService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewExpenseService creates a new ExpenseServicer. A nil publisher discards events.
func NewExpenseService(db *gorm.DB, publisher events.Publisher) ExpenseServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &expenseService{db: db, publisher: publisher}
}

// ListExpenses returns every transaction of the user, oldest first.
func (s *expenseService) ListExpenses(userID string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// AddExpense stores a new transaction. The sign of amount decides whether it
// is income or an expense; category is stored verbatim.
func (s *expenseService) AddExpense(ctx context.Context, userID, text string, amount decimal.Decimal, category models.Category) (*models.Transaction, []models.Transaction, error) {
	text = strings.TrimSpace(text)
	category = models.Category(strings.TrimSpace(string(category)))
	amount = amount.Round(2)

	switch {
	case text == "" || category == "":
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Please add Expense Details and Category")
	case amount.IsZero():
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Please enter a valid amount")
	case len([]rune(text)) > maxTextLength:
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "text must be at most 200 characters")
	case len([]rune(string(category))) > maxCategoryLength:
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category must be at most 50 characters")
	}

	tx := &models.Transaction{
		UserID:   userID,
		Text:     text,
		Amount:   amount,
		Category: category,
	}
	if err := s.db.Create(tx).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.publish(ctx, events.NewExpenseCreated(tx))

	txs, err := s.ListExpenses(userID)
	if err != nil {
		return nil, nil, err
	}
	return tx, txs, nil
}

// DeleteExpense removes one of the user's transactions.
func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID string) (*models.Transaction, []models.Transaction, error) {
	if !uuid.IsValid(expenseID) {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid expense ID")
	}

	var tx models.Transaction
	err := s.db.Transaction(func(dbTx *gorm.DB) error {
		if err := dbTx.Where("id = ? AND user_id = ?", expenseID, userID).First(&tx).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := dbTx.Delete(&tx).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.NewExpenseDeleted(&tx))

	txs, err := s.ListExpenses(userID)
	if err != nil {
		return nil, nil, err
	}
	return &tx, txs, nil
}

// DeleteAllExpenses removes every transaction of the user and returns how many
// were removed.
func (s *expenseService) DeleteAllExpenses(ctx context.Context, userID string) (int64, error) {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	s.publish(ctx, events.NewExpensesReset(userID, int(result.RowsAffected)))
	return result.RowsAffected, nil
}

// Summary returns the all-time report of the user.
func (s *expenseService) Summary(userID string) (report.Summary, error) {
	txs, err := s.ListExpenses(userID)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(txs), nil
}

// MonthReport returns the report for one calendar month evaluated in loc.
func (s *expenseService) MonthReport(userID string, year int, month time.Month, loc *time.Location) (report.MonthReport, error) {
	txs, err := s.ListExpenses(userID)
	if err != nil {
		return report.MonthReport{}, err
	}
	r, err := report.ForMonth(txs, year, month, loc)
	if err != nil {
		return report.MonthReport{}, apperrors.Wrap(apperrors.ErrInvalidPeriod, err)
	}
	return r, nil
}

// publish logs delivery failures instead of failing the request: the change is
// already committed.
func (s *expenseService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Get().Warnw("failed to publish event",
			"error", err,
			"type", event.Type,
			"user_id", event.UserID,
		)
	}
}
