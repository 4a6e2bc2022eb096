// Package vault implements the token transfer primitive over a balance
// store. A transfer either moves the full amount or fails with no
// partial effect; callers must treat any failure as aborting their own
// operation.
package vault

import (
	"context"
	"errors"
	"fmt"

	"solana-staking-vault/internal/storage"
)

// Transfer errors.
var (
	// ErrUnauthorized is returned when the presented authority does not
	// control the source account.
	ErrUnauthorized = errors.New("authority does not control source account")

	// ErrInsufficientFunds is returned when the source balance is
	// smaller than the transfer amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Adapter moves fungible value between token accounts. An account is
// controlled by the authority whose pubkey (or derived capability, for
// pool vaults) equals the account's owner component.
//
// Account naming convention: the token account of party P is
// "P" itself; ownership checks compare the authority against the
// account identifier. Pool vault accounts are owned by the pool PDA,
// which is presented as a derived capability instead of a signature.
type Adapter struct {
	balances storage.BalanceStore
}

// New creates a vault adapter over a balance store. Inside an atomic
// operation the store must be the transactional view, so transfers
// commit or roll back together with ledger mutations.
func New(balances storage.BalanceStore) *Adapter {
	return &Adapter{balances: balances}
}

// Transfer moves amount from one account to another. The authority must
// control the source account. A zero-amount transfer is a no-op.
func (a *Adapter) Transfer(ctx context.Context, from, to, authority string, amount uint64) error {
	if authority != from {
		return ErrUnauthorized
	}
	if amount == 0 {
		return nil
	}

	if err := a.balances.Sub(ctx, from, amount); err != nil {
		if errors.Is(err, storage.ErrInsufficientBalance) {
			return ErrInsufficientFunds
		}
		return fmt.Errorf("debit %s: %w", from, err)
	}
	if err := a.balances.Add(ctx, to, amount); err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}
	return nil
}

// Balance reads the current balance of an account. Missing accounts
// read as 0.
func (a *Adapter) Balance(ctx context.Context, account string) (uint64, error) {
	return a.balances.Get(ctx, account)
}
