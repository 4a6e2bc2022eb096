package postgres

import (
	"context"
	"fmt"

	"solana-staking-vault/internal/storage"
)

// BalanceStore implements storage.BalanceStore using PostgreSQL.
// The balances table carries a CHECK (balance >= 0) constraint, so a
// debit below zero is rejected by the database even if the guard query
// were ever bypassed.
type BalanceStore struct {
	q querier
}

// NewBalanceStore creates a BalanceStore for non-transactional use.
func NewBalanceStore(pool *Pool) *BalanceStore {
	return &BalanceStore{q: pool}
}

// Compile-time interface check.
var _ storage.BalanceStore = (*BalanceStore)(nil)

// Get retrieves the balance of an account. Missing accounts read as 0.
func (s *BalanceStore) Get(ctx context.Context, account string) (uint64, error) {
	query := `
		SELECT balance FROM balances WHERE account = $1
	`

	var balance int64
	err := s.q.QueryRow(ctx, query, account).Scan(&balance)
	if err != nil {
		if isNotFoundError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return uint64(balance), nil
}

// Add credits an account, creating it if missing.
func (s *BalanceStore) Add(ctx context.Context, account string, amount uint64) error {
	if account == "" {
		return storage.ErrInvalidInput
	}
	if err := checkBigintRange(amount); err != nil {
		return err
	}

	query := `
		INSERT INTO balances (account, balance)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET balance = balances.balance + EXCLUDED.balance
	`

	if _, err := s.q.Exec(ctx, query, account, int64(amount)); err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	return nil
}

// Sub debits an account. Returns ErrInsufficientBalance if the balance
// is smaller than amount.
func (s *BalanceStore) Sub(ctx context.Context, account string, amount uint64) error {
	if account == "" {
		return storage.ErrInvalidInput
	}
	if err := checkBigintRange(amount); err != nil {
		return err
	}

	query := `
		UPDATE balances
		SET balance = balance - $2
		WHERE account = $1 AND balance >= $2
	`

	tag, err := s.q.Exec(ctx, query, account, int64(amount))
	if err != nil {
		if isCheckViolationError(err) {
			return storage.ErrInsufficientBalance
		}
		return fmt.Errorf("debit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrInsufficientBalance
	}
	return nil
}
