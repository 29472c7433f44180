// internal/domain/account_test.go
package domain

import (
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/theplant/luhn"
)

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name     string
		status   AccountStatus
		admin    bool
		manager  bool
		eligible bool
	}{
		{"ActiveUser", StatusActive, false, false, true},
		{"PendingUser", StatusPending, false, false, false},
		{"DeactivatedUser", StatusDeactivated, false, false, false},
		{"PendingAdmin", StatusPending, true, false, true},
		{"DeactivatedAdmin", StatusDeactivated, true, false, true},
		{"PendingManager", StatusPending, false, true, true},
		{"DeactivatedManager", StatusDeactivated, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &Account{Status: tt.status, IsAdmin: tt.admin, IsManager: tt.manager}
			assert.Equal(t, tt.eligible, account.IsEligible())
		})
	}
}

func TestAccountStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusDeactivated.Valid())
	assert.False(t, AccountStatus("frozen").Valid())
	assert.False(t, AccountStatus("").Valid())
}

func TestNewAccount(t *testing.T) {
	account := NewAccount("alice", "alice@example.com")

	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.Equal(t, StatusPending, account.Status)
	assert.True(t, account.Balance.Equal(decimal.Zero))
	assert.False(t, account.IsAdmin)
	assert.False(t, account.IsManager)
	assert.True(t, ValidAccountNumber(account.AccountNumber))
}

func TestNewAccountNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		number := NewAccountNumber()
		assert.Len(t, number, 10)
		assert.True(t, ValidAccountNumber(number), "account number %s should carry a valid check digit", number)
	}
}

func TestValidAccountNumber(t *testing.T) {
	assert.False(t, ValidAccountNumber(""))
	assert.False(t, ValidAccountNumber("123"))
	assert.False(t, ValidAccountNumber("abcdefghij"))
	assert.False(t, ValidAccountNumber("12345678901")) // eleven digits

	// A ten-digit number with a deliberately broken check digit.
	base := 123456789
	check := luhn.CalculateLuhn(base)
	bad := base*10 + (check+1)%10
	assert.False(t, ValidAccountNumber(strconv.Itoa(bad)))
	assert.True(t, ValidAccountNumber(strconv.Itoa(base*10+check)))
}
