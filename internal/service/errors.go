package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrOperationNotFound = errors.New("operation not found")
	ErrBudgetNotFound    = errors.New("budget not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrForbidden         = errors.New("access denied")
	ErrEmailTaken        = errors.New("email already registered")
)

// ValidationError is a field-level 400 with a client-facing message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
