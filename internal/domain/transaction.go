// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionKind tags what a transaction record describes.
type TransactionKind string

const (
	KindTransfer TransactionKind = "transfer"
	KindDeposit  TransactionKind = "deposit"
	KindUserEdit TransactionKind = "user_edit"
)

// Transaction is one immutable entry in the append-only audit trail.
// SenderID is nil for administrator-originated deposits; Amount is unset for
// non-monetary audit entries such as profile edits.
type Transaction struct {
	ID         int64               `db:"id" json:"id"` // Primary key, BIGSERIAL in DB
	Reference  uuid.UUID           `db:"reference" json:"reference"`
	SenderID   *int64              `db:"sender_id" json:"sender_id"`
	ReceiverID int64               `db:"receiver_id" json:"receiver_id"`
	Amount     decimal.NullDecimal `db:"amount" json:"amount"` // NUMERIC(20, 2) in DB
	Kind       TransactionKind     `db:"kind" json:"kind"`
	Details    *string             `db:"details" json:"details"`
	Timestamp  time.Time           `db:"timestamp" json:"timestamp"` // UTC
}

// NewTransfer creates the record for a peer-to-peer transfer.
func NewTransfer(senderID, receiverID int64, amount decimal.Decimal, details *string) *Transaction {
	return &Transaction{
		Reference:  uuid.New(),
		SenderID:   &senderID,
		ReceiverID: receiverID,
		Amount:     decimal.NullDecimal{Decimal: amount, Valid: true},
		Kind:       KindTransfer,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}
}

// NewDeposit creates the record for an administrative deposit.
// The sender reference stays nil; the acting administrator is named in details.
func NewDeposit(receiverID int64, amount decimal.Decimal, details *string) *Transaction {
	return &Transaction{
		Reference:  uuid.New(),
		ReceiverID: receiverID,
		Amount:     decimal.NullDecimal{Decimal: amount, Valid: true},
		Kind:       KindDeposit,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}
}

// NewUserEdit creates a non-monetary audit record for a profile change made
// by actorID against targetID.
func NewUserEdit(actorID, targetID int64, details string) *Transaction {
	return &Transaction{
		Reference:  uuid.New(),
		SenderID:   &actorID,
		ReceiverID: targetID,
		Kind:       KindUserEdit,
		Details:    &details,
		Timestamp:  time.Now().UTC(),
	}
}
