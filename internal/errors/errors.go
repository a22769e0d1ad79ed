// Package errors provides the application error taxonomy for the budgeteer API.
// Service-layer failures are returned as *AppError so handlers can render a
// stable code and message without leaking internal details to clients.
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

// Is matches AppErrors by code so wrapped copies of a sentinel still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
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

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User & settings errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail    = &AppError{Code: "DUPLICATE_EMAIL", Message: "Email is taken", StatusCode: http.StatusConflict}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "Username is taken", StatusCode: http.StatusConflict}
	ErrIncorrectPassword = &AppError{Code: "INCORRECT_PASSWORD", Message: "Current password is incorrect", StatusCode: http.StatusBadRequest}
	ErrSettingsNotFound  = &AppError{Code: "SETTINGS_NOT_FOUND", Message: "Settings not found", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound         = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory        = &AppError{Code: "DUPLICATE_CATEGORY", Message: "Category with this name already exists", StatusCode: http.StatusConflict}
	ErrDefaultCategoryImmutable = &AppError{Code: "DEFAULT_CATEGORY_IMMUTABLE", Message: "Default categories cannot be renamed or deleted", StatusCode: http.StatusConflict}
)

// Budget period errors.
var (
	ErrBudgetPeriodNotFound = &AppError{Code: "BUDGET_PERIOD_NOT_FOUND", Message: "Budget period not found", StatusCode: http.StatusNotFound}
	ErrInvalidDateRange     = &AppError{Code: "INVALID_DATE_RANGE", Message: "Start date must be before end date", StatusCode: http.StatusBadRequest}
	ErrInvalidYearRange     = &AppError{Code: "INVALID_YEAR_RANGE", Message: "Start year must not be after end year", StatusCode: http.StatusBadRequest}
)

// Income & expense errors.
var (
	ErrIncomeNotFound       = &AppError{Code: "INCOME_NOT_FOUND", Message: "Income not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound      = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrExpenseGroupNotFound = &AppError{Code: "EXPENSE_GROUP_NOT_FOUND", Message: "Expense group not found", StatusCode: http.StatusNotFound}
	ErrExpenseGroupMismatch = &AppError{Code: "EXPENSE_GROUP_MISMATCH", Message: "All expenses must belong to the same budget period as the target group", StatusCode: http.StatusForbidden}
)

// Personal budget errors.
var (
	ErrPersonalBudgetNotFound     = &AppError{Code: "PERSONAL_BUDGET_NOT_FOUND", Message: "Personal budget not found", StatusCode: http.StatusNotFound}
	ErrPersonalBudgetItemNotFound = &AppError{Code: "PERSONAL_BUDGET_ITEM_NOT_FOUND", Message: "Personal budget item not found", StatusCode: http.StatusNotFound}
)
