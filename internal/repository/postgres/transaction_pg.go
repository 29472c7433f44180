// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"bankledger/internal/domain"
	"bankledger/internal/repository"

	"github.com/jmoiron/sqlx"
)

const transactionColumns = `id, reference, sender_id, receiver_id, amount, kind, details, "timestamp"`

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	// Methods receive a DBExecutor directly, so no *sqlx.DB is held here.
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a new audit record using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (reference, sender_id, receiver_id, amount, kind, details, "timestamp")
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.Reference,
		transaction.SenderID,
		transaction.ReceiverID,
		transaction.Amount,
		transaction.Kind,
		transaction.Details,
		transaction.Timestamp,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", classify(err))
	}
	return nil
}

// GetTransactionsByAccountID retrieves a paginated history for an account.
// Records where the account appears as either party are returned newest
// first; the id tiebreak keeps ordering stable for records sharing a
// timestamp. A second query produces the total count for pagination.
func (r *TransactionRepository) GetTransactionsByAccountID(ctx context.Context, q repository.DBExecutor, accountID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY "timestamp" DESC, id DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &transactions, query, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for account %d: %w", accountID, err)
	}

	var totalCount int64
	countQuery := `
		SELECT COUNT(*)
		FROM transactions
		WHERE sender_id = $1 OR receiver_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, accountID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for account %d: %w", accountID, err)
	}

	return transactions, totalCount, nil
}

// ListTransactions retrieves audit records matching the filter, newest first.
func (r *TransactionRepository) ListTransactions(ctx context.Context, q repository.DBExecutor, filter repository.TransactionFilter) ([]domain.Transaction, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Kind != nil {
		conds = append(conds, "kind = "+arg(*filter.Kind))
	}
	if filter.AccountID != nil {
		switch filter.Role {
		case repository.RoleSender:
			conds = append(conds, "sender_id = "+arg(*filter.AccountID))
		case repository.RoleReceiver:
			conds = append(conds, "receiver_id = "+arg(*filter.AccountID))
		default:
			p := arg(*filter.AccountID)
			conds = append(conds, fmt.Sprintf("(sender_id = %s OR receiver_id = %s)", p, p))
		}
	}
	if filter.CounterpartyID != nil {
		p := arg(*filter.CounterpartyID)
		conds = append(conds, fmt.Sprintf("(sender_id = %s OR receiver_id = %s)", p, p))
	}
	if filter.From != nil {
		conds = append(conds, `"timestamp" >= `+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, `"timestamp" < `+arg(*filter.To))
	}
	if filter.MinAmount != nil {
		conds = append(conds, "amount >= "+arg(*filter.MinAmount))
	}
	if filter.MaxAmount != nil {
		conds = append(conds, "amount <= "+arg(*filter.MaxAmount))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY "timestamp" DESC, id DESC`
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)
	}

	transactions := []domain.Transaction{}
	if err := q.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}
