// internal/repository/account_repo.go
package repository

import (
	"context"

	"bankledger/internal/domain"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data operations.
// All mutating methods expect to run against an open transaction's DBExecutor.
type AccountRepository interface {
	// CreateAccount inserts a new account using the provided DBExecutor.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetAccountByID retrieves an account by its internal ID.
	GetAccountByID(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// GetAccountByNumber retrieves an account by its account number.
	GetAccountByNumber(ctx context.Context, q DBExecutor, accountNumber string) (*domain.Account, error)
	// GetAccountByUsername retrieves an account by its username.
	GetAccountByUsername(ctx context.Context, q DBExecutor, username string) (*domain.Account, error)
	// GetAccountForUpdate retrieves an account and locks its row until the
	// enclosing transaction ends.
	GetAccountForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// AddToBalance applies a signed delta to an account balance. The update
	// refuses to drive the balance below zero.
	AddToBalance(ctx context.Context, q DBExecutor, accountID int64, delta decimal.Decimal) error
	// UpdateAccountStatus changes the lifecycle status of an account.
	UpdateAccountStatus(ctx context.Context, q DBExecutor, accountID int64, status domain.AccountStatus) error
}
