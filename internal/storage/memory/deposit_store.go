package memory

import (
	"context"
	"sort"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// depositStore is the in-memory implementation of storage.DepositStore.
type depositStore struct {
	db *DB
}

// Insert adds a new deposit. Returns ErrDuplicateKey if the address exists.
func (s *depositStore) Insert(_ context.Context, d *domain.Deposit) error {
	if d == nil || d.Address == "" {
		return storage.ErrInvalidInput
	}
	if _, exists := s.db.deposits[d.Address]; exists {
		return storage.ErrDuplicateKey
	}

	depositCopy := *d
	s.db.deposits[d.Address] = &depositCopy
	return nil
}

// GetByAddress retrieves a deposit by its PDA. Returns ErrNotFound if not exists.
func (s *depositStore) GetByAddress(_ context.Context, address string) (*domain.Deposit, error) {
	d, exists := s.db.deposits[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	depositCopy := *d
	return &depositCopy, nil
}

// Update overwrites the mutable fields of an existing deposit.
func (s *depositStore) Update(_ context.Context, d *domain.Deposit) error {
	if d == nil || d.Address == "" {
		return storage.ErrInvalidInput
	}
	if _, exists := s.db.deposits[d.Address]; !exists {
		return storage.ErrNotFound
	}

	depositCopy := *d
	s.db.deposits[d.Address] = &depositCopy
	return nil
}

// GetByPool retrieves all deposits referencing a pool, ordered by address ASC.
func (s *depositStore) GetByPool(_ context.Context, pool string) ([]*domain.Deposit, error) {
	var result []*domain.Deposit
	for _, d := range s.db.deposits {
		if d.Pool == pool {
			depositCopy := *d
			result = append(result, &depositCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})

	return result, nil
}

// GetByStaker retrieves all deposits owned by a staker, ordered by address ASC.
func (s *depositStore) GetByStaker(_ context.Context, staker string) ([]*domain.Deposit, error) {
	var result []*domain.Deposit
	for _, d := range s.db.deposits {
		if d.Staker == staker {
			depositCopy := *d
			result = append(result, &depositCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})

	return result, nil
}

var _ storage.DepositStore = (*depositStore)(nil)
