// Package wallet tracks spendable balances for tipping.
package wallet

import (
	"context"
	"errors"
	"sync"
)

// ErrInsufficientFunds is returned when a transfer exceeds the sender's
// balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// BalanceProvider is the capability the tipping flow needs: read a
// balance and move funds between two accounts.
type BalanceProvider interface {
	Balance(ctx context.Context, accountID string) (int64, error)
	Apply(ctx context.Context, from, to string, amount int64) error
}

// Memory is an in-process BalanceProvider. Every account starts with the
// initial grant the first time it is touched.
type Memory struct {
	mu       sync.Mutex
	initial  int64
	balances map[string]int64
}

// NewMemory creates a Memory provider with the given initial grant.
func NewMemory(initial int64) *Memory {
	return &Memory{
		initial:  initial,
		balances: map[string]int64{},
	}
}

// Balance returns the current balance of the account.
func (m *Memory) Balance(_ context.Context, accountID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.balance(accountID), nil
}

// Apply moves amount from one account to another. The transfer is
// rejected whole when the sender can not cover it.
func (m *Memory) Apply(_ context.Context, from, to string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balance(from) < amount {
		return ErrInsufficientFunds
	}

	m.balances[from] -= amount
	m.balances[to] += amount

	return nil
}

// Deposit credits the account outside of a transfer.
func (m *Memory) Deposit(accountID string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[accountID] = m.balance(accountID) + amount
}

func (m *Memory) balance(accountID string) int64 {
	b, ok := m.balances[accountID]
	if !ok {
		b = m.initial
		m.balances[accountID] = b
	}
	return b
}
