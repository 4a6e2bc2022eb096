package memory

import (
	"context"
	"sort"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// poolStore is the in-memory implementation of storage.PoolStore.
// Used only inside a DB operation; the DB lock is already held.
type poolStore struct {
	db *DB
}

// Insert adds a new pool. Returns ErrDuplicateKey if the address exists.
func (s *poolStore) Insert(_ context.Context, p *domain.Pool) error {
	if p == nil || p.Address == "" {
		return storage.ErrInvalidInput
	}
	if _, exists := s.db.pools[p.Address]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	poolCopy := *p
	s.db.pools[p.Address] = &poolCopy
	return nil
}

// GetByAddress retrieves a pool by its PDA. Returns ErrNotFound if not exists.
func (s *poolStore) GetByAddress(_ context.Context, address string) (*domain.Pool, error) {
	p, exists := s.db.pools[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	poolCopy := *p
	return &poolCopy, nil
}

// Update overwrites the mutable fields of an existing pool.
func (s *poolStore) Update(_ context.Context, p *domain.Pool) error {
	if p == nil || p.Address == "" {
		return storage.ErrInvalidInput
	}
	if _, exists := s.db.pools[p.Address]; !exists {
		return storage.ErrNotFound
	}

	poolCopy := *p
	s.db.pools[p.Address] = &poolCopy
	return nil
}

// GetByCreator retrieves all pools created by a pubkey, ordered by pool_id ASC.
func (s *poolStore) GetByCreator(_ context.Context, creator string) ([]*domain.Pool, error) {
	var result []*domain.Pool
	for _, p := range s.db.pools {
		if p.Creator == creator {
			poolCopy := *p
			result = append(result, &poolCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PoolID < result[j].PoolID
	})

	return result, nil
}

var _ storage.PoolStore = (*poolStore)(nil)
