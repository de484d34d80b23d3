// Package errors provides the error type returned by services and handlers.
// Every error that reaches a client is an AppError so responses never leak
// internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so wrapped copies of a
// sentinel still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors. Every rejected session is reported as 403 so clients
// have a single signal to re-authenticate on.
var (
	ErrSessionExpired     = &AppError{Code: "SESSION_EXPIRED", Message: "Unauthorized, JWT token wrong or expired", StatusCode: http.StatusForbidden}
	ErrTokenRequired      = &AppError{Code: "SESSION_EXPIRED", Message: "Unauthorized, JWT token is required", StatusCode: http.StatusForbidden}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Auth failed email or password is wrong", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "User is already exist, you can login", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrNoTransactions      = &AppError{Code: "NO_TRANSACTIONS", Message: "No transactions found for the selected month", StatusCode: http.StatusNotFound}
	ErrInvalidPeriod       = &AppError{Code: "INVALID_PERIOD", Message: "Month must be in YYYY-MM format", StatusCode: http.StatusBadRequest}
)
