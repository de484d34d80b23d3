package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

// ExpenseHandler handles the transaction list of the authenticated user.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// AddExpenseRequest represents a new transaction. A negative amount is an
// expense, a positive one is income.
type AddExpenseRequest struct {
	Text     string          `json:"text" binding:"required,notblank,max=200"`
	Amount   decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
	Category string          `json:"category" binding:"required,notblank,max=50"`
}

// ExpensesResponse carries the full transaction list after an operation.
type ExpensesResponse struct {
	Message string               `json:"message"`
	Success bool                 `json:"success"`
	Data    []models.Transaction `json:"data"`
}

// GetExpenses lists the user's transactions
// @Summary     List transactions
// @Description Get every transaction of the authenticated user, oldest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ExpensesResponse "Transactions"
// @Failure     403 {object} ErrorResponse "Session expired"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txs, err := h.expenseService.ListExpenses(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExpensesResponse{Message: "Fetched Expenses successfully", Success: true, Data: txs})
}

// AddExpense creates a transaction
// @Summary     Add a transaction
// @Description Store a transaction and return the updated list
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddExpenseRequest true "Transaction data"
// @Success     200 {object} ExpensesResponse "Updated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Session expired"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) AddExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tx, txs, err := h.expenseService.AddExpense(c.Request.Context(), userID, req.Text, req.Amount, models.Category(req.Category))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "transaction", tx.ID, c.ClientIP(),
		map[string]any{"text": tx.Text, "amount": tx.Amount.String(), "category": tx.Category})

	c.JSON(http.StatusOK, ExpensesResponse{Message: "Expense added successfully", Success: true, Data: txs})
}

// DeleteExpense removes one transaction
// @Summary     Delete a transaction
// @Description Delete a transaction by ID and return the updated list
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       expenseId path string true "Transaction ID"
// @Success     200 {object} ExpensesResponse "Updated transactions"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     403 {object} ErrorResponse "Session expired"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{expenseId} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, txs, err := h.expenseService.DeleteExpense(c.Request.Context(), userID, c.Param("expenseId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "transaction", tx.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, ExpensesResponse{Message: "Expense Deleted successfully", Success: true, Data: txs})
}

// DeleteAllExpenses removes every transaction of the user
// @Summary     Delete all transactions
// @Description Delete every transaction of the authenticated user
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Transactions deleted"
// @Failure     403 {object} ErrorResponse "Session expired"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [delete]
func (h *ExpenseHandler) DeleteAllExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	n, err := h.expenseService.DeleteAllExpenses(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ALL_EXPENSES", "transaction", "", c.ClientIP(),
		map[string]any{"deleted": n})

	c.JSON(http.StatusOK, MessageResponse{Message: "All transactions deleted successfully", Success: true})
}
