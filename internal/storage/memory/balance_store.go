package memory

import (
	"context"

	"solana-staking-vault/internal/storage"
)

// balanceStore is the in-memory implementation of storage.BalanceStore.
type balanceStore struct {
	db *DB
}

// Get retrieves the balance of an account. Missing accounts read as 0.
func (s *balanceStore) Get(_ context.Context, account string) (uint64, error) {
	return s.db.balances[account], nil
}

// Add credits an account, creating it if missing.
func (s *balanceStore) Add(_ context.Context, account string, amount uint64) error {
	if account == "" {
		return storage.ErrInvalidInput
	}
	s.db.balances[account] += amount
	return nil
}

// Sub debits an account.
func (s *balanceStore) Sub(_ context.Context, account string, amount uint64) error {
	if account == "" {
		return storage.ErrInvalidInput
	}
	if s.db.balances[account] < amount {
		return storage.ErrInsufficientBalance
	}
	s.db.balances[account] -= amount
	return nil
}

var _ storage.BalanceStore = (*balanceStore)(nil)
