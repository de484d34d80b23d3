package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/report"
	"expensetracker/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	listExpensesFn      func(userID string) ([]models.Transaction, error)
	addExpenseFn        func(userID, text string, amount decimal.Decimal, category models.Category) (*models.Transaction, []models.Transaction, error)
	deleteExpenseFn     func(userID, expenseID string) (*models.Transaction, []models.Transaction, error)
	deleteAllExpensesFn func(userID string) (int64, error)
	summaryFn           func(userID string) (report.Summary, error)
	monthReportFn       func(userID string, year int, month time.Month, loc *time.Location) (report.MonthReport, error)
}

func (m *mockExpenseService) ListExpenses(userID string) ([]models.Transaction, error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(userID)
	}
	return []models.Transaction{}, nil
}

func (m *mockExpenseService) AddExpense(_ context.Context, userID, text string, amount decimal.Decimal, category models.Category) (*models.Transaction, []models.Transaction, error) {
	if m.addExpenseFn != nil {
		return m.addExpenseFn(userID, text, amount, category)
	}
	return &models.Transaction{}, []models.Transaction{}, nil
}

func (m *mockExpenseService) DeleteExpense(_ context.Context, userID, expenseID string) (*models.Transaction, []models.Transaction, error) {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return &models.Transaction{}, []models.Transaction{}, nil
}

func (m *mockExpenseService) DeleteAllExpenses(_ context.Context, userID string) (int64, error) {
	if m.deleteAllExpensesFn != nil {
		return m.deleteAllExpensesFn(userID)
	}
	return 0, nil
}

func (m *mockExpenseService) Summary(userID string) (report.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(userID)
	}
	return report.Summarize(nil), nil
}

func (m *mockExpenseService) MonthReport(userID string, year int, month time.Month, loc *time.Location) (report.MonthReport, error) {
	if m.monthReportFn != nil {
		return m.monthReportFn(userID, year, month, loc)
	}
	return report.ForMonth(nil, year, month, loc)
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := newTestEngine()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/expenses", handler.GetExpenses)
	auth.POST("/expenses", handler.AddExpense)
	auth.DELETE("/expenses", handler.DeleteAllExpenses)
	auth.DELETE("/expenses/:expenseId", handler.DeleteExpense)
	return r
}

func sampleTx(id, text, amount string, category models.Category) models.Transaction {
	return models.Transaction{
		Base:     models.Base{ID: id, CreatedAt: time.Now()},
		UserID:   testUserID,
		Text:     text,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
	}
}

func dataList(t *testing.T, result map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := result["data"].([]interface{})
	if !ok {
		t.Fatalf("expected data array, got %v", result["data"])
	}
	return data
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("returns 200 with list", func(t *testing.T) {
		svc := &mockExpenseService{
			listExpensesFn: func(userID string) ([]models.Transaction, error) {
				if userID != testUserID {
					t.Errorf("expected user %s, got %s", testUserID, userID)
				}
				return []models.Transaction{
					sampleTx("a", "Salary", "500", models.CategorySalary),
					sampleTx("b", "Lunch", "-120", models.CategoryFood),
				}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "Fetched Expenses successfully" {
			t.Errorf("unexpected message %v", result["message"])
		}
		data := dataList(t, result)
		if len(data) != 2 {
			t.Fatalf("expected 2 items, got %d", len(data))
		}
		second := data[1].(map[string]interface{})
		if second["text"] != "Lunch" || fmt.Sprint(second["amount"]) != "-120" || second["category"] != "Food" {
			t.Errorf("unexpected item: %v", second)
		}
	})

	t.Run("returns empty array, not null", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(dataList(t, parseJSON(t, rec))) != 0 {
			t.Error("expected empty list")
		}
	})

	t.Run("returns 403 without user in context", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := newTestEngine()
		r.GET("/expenses", handler.GetExpenses)

		rec := doRequest(r, "GET", "/expenses", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SESSION_EXPIRED")
	})

	t.Run("returns 500 on service failure", func(t *testing.T) {
		svc := &mockExpenseService{
			listExpensesFn: func(string) ([]models.Transaction, error) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("db down"))
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})

	t.Run("hides unexpected errors", func(t *testing.T) {
		svc := &mockExpenseService{
			listExpensesFn: func(string) ([]models.Transaction, error) {
				return nil, fmt.Errorf("pq: relation \"transactions\" does not exist")
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INTERNAL_ERROR")
		if result["message"] != apperrors.ErrInternalServer.Message {
			t.Errorf("expected generic message, got %v", result["message"])
		}
	})
}

func TestExpenseHandler_AddExpense(t *testing.T) {
	t.Run("returns 200 with updated list", func(t *testing.T) {
		var gotAmount decimal.Decimal
		var gotCategory models.Category
		svc := &mockExpenseService{
			addExpenseFn: func(_ string, text string, amount decimal.Decimal, category models.Category) (*models.Transaction, []models.Transaction, error) {
				gotAmount, gotCategory = amount, category
				tx := sampleTx("new", text, amount.String(), category)
				return &tx, []models.Transaction{tx}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit))

		rec := doRequest(r, "POST", "/expenses", `{"text":"Vet","amount":-80.5,"category":"Pets"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "Expense added successfully" {
			t.Errorf("unexpected message %v", result["message"])
		}
		if len(dataList(t, result)) != 1 {
			t.Error("expected list with the new transaction")
		}
		if !gotAmount.Equal(decimal.RequireFromString("-80.5")) {
			t.Errorf("expected amount -80.5, got %s", gotAmount)
		}
		if gotCategory != "Pets" {
			t.Errorf("expected unknown category passed verbatim, got %q", gotCategory)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_EXPENSE" || audit.entries[0].resourceID != "new" {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("accepts amount as string", func(t *testing.T) {
		var gotAmount decimal.Decimal
		svc := &mockExpenseService{
			addExpenseFn: func(_ string, _ string, amount decimal.Decimal, _ models.Category) (*models.Transaction, []models.Transaction, error) {
				gotAmount = amount
				return &models.Transaction{}, []models.Transaction{}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/expenses", `{"text":"Salary","amount":"1500.25","category":"Salary"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotAmount.Equal(decimal.RequireFromString("1500.25")) {
			t.Errorf("expected 1500.25, got %s", gotAmount)
		}
	})

	for name, body := range map[string]string{
		"missing text":     `{"amount":-1,"category":"Food"}`,
		"blank text":       `{"text":"   ","amount":-1,"category":"Food"}`,
		"missing amount":   `{"text":"Lunch","category":"Food"}`,
		"zero amount":      `{"text":"Lunch","amount":0,"category":"Food"}`,
		"non numeric":      `{"text":"Lunch","amount":"abc","category":"Food"}`,
		"missing category": `{"text":"Lunch","amount":-1}`,
		"malformed json":   `{"text":`,
	} {
		t.Run("returns 400 on "+name, func(t *testing.T) {
			called := false
			svc := &mockExpenseService{
				addExpenseFn: func(string, string, decimal.Decimal, models.Category) (*models.Transaction, []models.Transaction, error) {
					called = true
					return &models.Transaction{}, nil, nil
				},
			}
			r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

			rec := doRequest(r, "POST", "/expenses", body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
			if called {
				t.Error("service must not be called for invalid input")
			}
		})
	}
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	t.Run("returns 200 with remaining list", func(t *testing.T) {
		var gotID string
		svc := &mockExpenseService{
			deleteExpenseFn: func(_ string, expenseID string) (*models.Transaction, []models.Transaction, error) {
				gotID = expenseID
				deleted := sampleTx(expenseID, "Lunch", "-5", models.CategoryFood)
				return &deleted, []models.Transaction{sampleTx("keep", "Salary", "10", models.CategorySalary)}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit))

		rec := doRequest(r, "DELETE", "/expenses/0190c3a8-0000-7000-8000-000000000001", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "Expense Deleted successfully" {
			t.Errorf("unexpected message %v", result["message"])
		}
		if len(dataList(t, result)) != 1 {
			t.Error("expected one remaining transaction")
		}
		if gotID != "0190c3a8-0000-7000-8000-000000000001" {
			t.Errorf("unexpected id %q", gotID)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_EXPENSE" {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			deleteExpenseFn: func(string, string) (*models.Transaction, []models.Transaction, error) {
				return nil, nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/expenses/0190c3a8-0000-7000-8000-000000000002", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		svc := &mockExpenseService{
			deleteExpenseFn: func(string, string) (*models.Transaction, []models.Transaction, error) {
				return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid expense ID")
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/expenses/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestExpenseHandler_DeleteAllExpenses(t *testing.T) {
	svc := &mockExpenseService{
		deleteAllExpensesFn: func(string) (int64, error) { return 3, nil },
	}
	audit := &mockAuditService{}
	r := setupExpenseRouter(NewExpenseHandler(svc, audit))

	rec := doRequest(r, "DELETE", "/expenses", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["message"] != "All transactions deleted successfully" || result["success"] != true {
		t.Errorf("unexpected body: %v", result)
	}
	if _, ok := result["data"]; ok {
		t.Error("reset response must not carry data")
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_ALL_EXPENSES" {
		t.Errorf("unexpected audit entries: %+v", audit.entries)
	}
}
