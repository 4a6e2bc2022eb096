package memory

import (
	"context"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// stakerStatsStore is the in-memory implementation of storage.StakerStatsStore.
type stakerStatsStore struct {
	db *DB
}

// Insert adds a new stats record. Returns ErrDuplicateKey if the address exists.
func (s *stakerStatsStore) Insert(_ context.Context, st *domain.StakerStats) error {
	if st == nil || st.Address == "" {
		return storage.ErrInvalidInput
	}
	if _, exists := s.db.stats[st.Address]; exists {
		return storage.ErrDuplicateKey
	}

	statsCopy := *st
	s.db.stats[st.Address] = &statsCopy
	return nil
}

// GetByAddress retrieves a stats record by its PDA. Returns ErrNotFound if not exists.
func (s *stakerStatsStore) GetByAddress(_ context.Context, address string) (*domain.StakerStats, error) {
	st, exists := s.db.stats[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	statsCopy := *st
	return &statsCopy, nil
}

// Update overwrites the mutable fields of an existing stats record.
func (s *stakerStatsStore) Update(_ context.Context, st *domain.StakerStats) error {
	if st == nil || st.Address == "" {
		return storage.ErrInvalidInput
	}
	if _, exists := s.db.stats[st.Address]; !exists {
		return storage.ErrNotFound
	}

	statsCopy := *st
	s.db.stats[st.Address] = &statsCopy
	return nil
}

var _ storage.StakerStatsStore = (*stakerStatsStore)(nil)
