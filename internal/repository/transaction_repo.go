// internal/repository/transaction_repo.go
package repository

import (
	"context"
	"time"

	"bankledger/internal/domain"

	"github.com/shopspring/decimal"
)

// TransactionRole selects which side of a record an account filter applies to.
type TransactionRole string

const (
	RoleSender   TransactionRole = "sender"
	RoleReceiver TransactionRole = "receiver"
	RoleAny      TransactionRole = ""
)

// TransactionFilter describes an oversight query over the audit trail.
// Nil fields are not applied. Results are always ordered newest first.
type TransactionFilter struct {
	Kind           *domain.TransactionKind
	AccountID      *int64
	Role           TransactionRole
	CounterpartyID *int64
	From           *time.Time
	To             *time.Time
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	Limit          int
	Offset         int
}

// TransactionRepository defines the interface for audit-trail operations.
// Records are append-only; there are no update or delete methods.
type TransactionRepository interface {
	// CreateTransaction appends a new record using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByAccountID retrieves the history for an account, newest
	// first, along with the total record count for pagination.
	GetTransactionsByAccountID(ctx context.Context, q DBExecutor, accountID int64, limit, offset int) ([]domain.Transaction, int64, error)
	// ListTransactions retrieves records matching the filter, newest first.
	ListTransactions(ctx context.Context, q DBExecutor, filter TransactionFilter) ([]domain.Transaction, error)
}
