// internal/domain/account.go
package domain

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
	"github.com/theplant/luhn"
)

// AccountStatus defines the lifecycle state of an account.
type AccountStatus string

const (
	StatusPending     AccountStatus = "pending"
	StatusActive      AccountStatus = "active"
	StatusDeactivated AccountStatus = "deactivated"
)

// Valid reports whether s is one of the known account statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusDeactivated:
		return true
	}
	return false
}

// Account represents a bank account with a single mutable balance.
// The account number is immutable once assigned.
type Account struct {
	ID            int64           `db:"id" json:"id"`
	AccountNumber string          `db:"account_number" json:"account_number"`
	Username      string          `db:"username" json:"username"`
	Email         string          `db:"email" json:"email"`
	Firstname     *string         `db:"firstname" json:"firstname"`
	Lastname      *string         `db:"lastname" json:"lastname"`
	Balance       decimal.Decimal `db:"balance" json:"balance"` // NUMERIC(20, 2) in DB, never negative
	Status        AccountStatus   `db:"status" json:"status"`
	IsAdmin       bool            `db:"is_admin" json:"is_admin"`
	IsManager     bool            `db:"is_manager" json:"is_manager"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a new Account instance awaiting administrator approval.
func NewAccount(username, email string) *Account {
	now := time.Now().UTC()
	return &Account{
		AccountNumber: NewAccountNumber(),
		Username:      username,
		Email:         email,
		Balance:       decimal.Zero,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsEligible reports whether the account may send or receive funds.
// Admins and managers are exempt from the active-status gate.
func (a *Account) IsEligible() bool {
	return a.Status == StatusActive || a.IsAdmin || a.IsManager
}

// NewAccountNumber generates a ten-digit account number whose final digit is
// a Luhn check digit over the leading nine.
func NewAccountNumber() string {
	base := 100000000 + rand.Intn(900000000)
	return strconv.Itoa(base*10 + luhn.CalculateLuhn(base))
}

// ValidAccountNumber reports whether s is a well-formed account number.
func ValidAccountNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return false
	}
	return luhn.Valid(n)
}
