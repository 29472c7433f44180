// internal/service/ledger_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"bankledger/internal/domain"
	"bankledger/internal/repository"
	"bankledger/internal/util"
	"bankledger/pkg/db"

	"github.com/shopspring/decimal"
)

// LedgerService defines the interface for the monetary core: atomic balance
// mutations, account identity, and the append-only audit trail.
type LedgerService interface {
	Transfer(ctx context.Context, senderID, recipientID int64, amount decimal.Decimal, details *string) (*domain.Account, *domain.Account, *domain.Transaction, error)
	Deposit(ctx context.Context, targetID int64, amount decimal.Decimal, actorID int64) (*domain.Account, *domain.Transaction, error)
	RecordProfileEdit(ctx context.Context, actorID, targetID int64, details string) (*domain.Transaction, error)
	CreateAccount(ctx context.Context, username, email string) (*domain.Account, error)
	SetAccountStatus(ctx context.Context, accountID int64, status domain.AccountStatus) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
	History(ctx context.Context, accountID int64, limit, offset int) ([]domain.Transaction, int64, error)
	ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]domain.Transaction, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner      db.DBTxBeginner       // For starting units of work (e.g. *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g. *sqlx.DB)
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// Transfer atomically moves amount from senderID to recipientID and appends
// one transfer record, all inside a single unit of work. The debit and
// credit either both apply or neither does.
func (s *ledgerService) Transfer(ctx context.Context, senderID, recipientID int64, amount decimal.Decimal, details *string) (*domain.Account, *domain.Account, *domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, nil, util.ErrInvalidAmount
	}
	if senderID == recipientID {
		return nil, nil, nil, util.ErrSelfTransfer
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, nil, fmt.Errorf("transfer: transaction controller does not implement DBExecutor")
	}

	// Lock both rows in ascending id order so two transfers touching the
	// same pair in opposite directions cannot deadlock.
	firstID, secondID := senderID, recipientID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := s.accountRepo.GetAccountForUpdate(ctx, txExecutor, firstID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to lock account %d: %w", firstID, err)
	}
	second, err := s.accountRepo.GetAccountForUpdate(ctx, txExecutor, secondID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to lock account %d: %w", secondID, err)
	}

	sender, recipient := first, second
	if sender.ID != senderID {
		sender, recipient = second, first
	}

	// Preconditions are evaluated only against rows read under the lock.
	if !sender.IsEligible() || !recipient.IsEligible() {
		return nil, nil, nil, util.ErrInactiveAccount
	}
	if sender.Balance.LessThan(amount) {
		return nil, nil, nil, util.ErrInsufficientFunds
	}

	if err := s.accountRepo.AddToBalance(ctx, txExecutor, sender.ID, amount.Neg()); err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to debit sender: %w", err)
	}
	if err := s.accountRepo.AddToBalance(ctx, txExecutor, recipient.ID, amount); err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to credit recipient: %w", err)
	}

	transaction := domain.NewTransfer(sender.ID, recipient.ID, amount, details)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to create transaction: %w", err)
	}

	updatedSender, err := s.accountRepo.GetAccountByID(ctx, txExecutor, sender.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to re-fetch sender %d: %w", sender.ID, err)
	}
	updatedRecipient, err := s.accountRepo.GetAccountByID(ctx, txExecutor, recipient.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to re-fetch recipient %d: %w", recipient.ID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to commit transaction: %w", err)
	}

	return updatedSender, updatedRecipient, transaction, nil
}

// Deposit atomically credits amount to targetID and appends one deposit
// record with no sender. actorID names the administrator initiating the
// deposit; it is recorded for audit only and never affects balances.
func (s *ledgerService) Deposit(ctx context.Context, targetID int64, amount decimal.Decimal, actorID int64) (*domain.Account, *domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidAmount
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("deposit: transaction controller does not implement DBExecutor")
	}

	actor, err := s.accountRepo.GetAccountByID(ctx, txExecutor, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to get actor %d: %w", actorID, err)
	}

	target, err := s.accountRepo.GetAccountForUpdate(ctx, txExecutor, targetID)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to lock account %d: %w", targetID, err)
	}
	if !target.IsEligible() {
		return nil, nil, util.ErrInactiveAccount
	}

	if err := s.accountRepo.AddToBalance(ctx, txExecutor, target.ID, amount); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to credit account: %w", err)
	}

	details := fmt.Sprintf("Deposit by administrator %s", actor.Username)
	transaction := domain.NewDeposit(target.ID, amount, &details)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to create transaction: %w", err)
	}

	updatedTarget, err := s.accountRepo.GetAccountByID(ctx, txExecutor, target.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to re-fetch account %d: %w", target.ID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to commit transaction: %w", err)
	}

	return updatedTarget, transaction, nil
}

// RecordProfileEdit appends a non-monetary audit record describing a profile
// change made by actorID against targetID.
func (s *ledgerService) RecordProfileEdit(ctx context.Context, actorID, targetID int64, details string) (*domain.Transaction, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("record profile edit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("record profile edit: transaction controller does not implement DBExecutor")
	}

	if _, err := s.accountRepo.GetAccountByID(ctx, txExecutor, targetID); err != nil {
		return nil, fmt.Errorf("record profile edit: failed to get account %d: %w", targetID, err)
	}

	transaction := domain.NewUserEdit(actorID, targetID, details)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("record profile edit: failed to create transaction: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("record profile edit: failed to commit transaction: %w", err)
	}

	return transaction, nil
}

// CreateAccount registers a new pending account with a zero balance and a
// freshly generated account number.
func (s *ledgerService) CreateAccount(ctx context.Context, username, email string) (*domain.Account, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create account: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create account: transaction controller does not implement DBExecutor")
	}

	_, err = s.accountRepo.GetAccountByUsername(ctx, txExecutor, username)
	if err == nil {
		return nil, util.ErrDuplicateEntry
	}
	if !errors.Is(err, util.ErrAccountNotFound) {
		return nil, fmt.Errorf("create account: failed to check existing username: %w", err)
	}

	account := domain.NewAccount(username, email)
	if err := s.accountRepo.CreateAccount(ctx, txExecutor, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create account: failed to commit transaction: %w", err)
	}

	return account, nil
}

// SetAccountStatus activates or deactivates an account.
func (s *ledgerService) SetAccountStatus(ctx context.Context, accountID int64, status domain.AccountStatus) (*domain.Account, error) {
	if !status.Valid() {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("set account status: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("set account status: transaction controller does not implement DBExecutor")
	}

	if err := s.accountRepo.UpdateAccountStatus(ctx, txExecutor, accountID, status); err != nil {
		return nil, fmt.Errorf("set account status: %w", err)
	}

	account, err := s.accountRepo.GetAccountByID(ctx, txExecutor, accountID)
	if err != nil {
		return nil, fmt.Errorf("set account status: failed to re-fetch account %d: %w", accountID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("set account status: failed to commit transaction: %w", err)
	}

	return account, nil
}

// GetAccountByNumber resolves an account by its account number.
func (s *ledgerService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByNumber(ctx, s.dbExecutor, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("get account by number: %w", err)
	}
	return account, nil
}

// GetAccountByUsername resolves an account by its username.
func (s *ledgerService) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		return nil, fmt.Errorf("get account by username: %w", err)
	}
	return account, nil
}

// History retrieves the paginated audit trail for an account, newest first.
func (s *ledgerService) History(ctx context.Context, accountID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	if _, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID); err != nil {
		return nil, 0, fmt.Errorf("history: %w", err)
	}

	transactions, totalCount, err := s.transactionRepo.GetTransactionsByAccountID(ctx, s.dbExecutor, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("history: %w", err)
	}

	return transactions, totalCount, nil
}

// ListTransactions runs an oversight query over the audit trail. This is a
// read-only projection with no effect on balances.
func (s *ledgerService) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.ListTransactions(ctx, s.dbExecutor, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}
