// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input provided")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrSelfTransfer      = errors.New("cannot transfer to the same account")
	ErrInactiveAccount   = errors.New("account is not active")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrOperationFailed   = errors.New("operation failed, try again")
)

// IsError reports whether err is, or wraps, target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
