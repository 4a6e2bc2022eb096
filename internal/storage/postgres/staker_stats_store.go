package postgres

import (
	"context"
	"fmt"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// StakerStatsStore implements storage.StakerStatsStore using PostgreSQL.
type StakerStatsStore struct {
	q querier
}

// NewStakerStatsStore creates a StakerStatsStore for non-transactional use.
func NewStakerStatsStore(pool *Pool) *StakerStatsStore {
	return &StakerStatsStore{q: pool}
}

// Compile-time interface check.
var _ storage.StakerStatsStore = (*StakerStatsStore)(nil)

// Insert adds a new stats record. Returns ErrDuplicateKey if the address exists.
func (s *StakerStatsStore) Insert(ctx context.Context, st *domain.StakerStats) error {
	if err := checkBigintRange(st.TotalStaked); err != nil {
		return err
	}

	query := `
		INSERT INTO staker_stats (address, staker, total_staked, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.q.Exec(ctx, query,
		st.Address,
		st.Staker,
		int64(st.TotalStaked),
		st.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert staker stats: %w", err)
	}
	return nil
}

// GetByAddress retrieves a stats record by its PDA. Returns ErrNotFound
// if not exists. Inside a transaction the row is locked for the
// duration of the operation.
func (s *StakerStatsStore) GetByAddress(ctx context.Context, address string) (*domain.StakerStats, error) {
	query := `
		SELECT address, staker, total_staked, created_at
		FROM staker_stats
		WHERE address = $1
		FOR UPDATE
	`

	var st domain.StakerStats
	var totalStaked int64
	err := s.q.QueryRow(ctx, query, address).Scan(
		&st.Address,
		&st.Staker,
		&totalStaked,
		&st.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get staker stats by address: %w", err)
	}

	st.TotalStaked = uint64(totalStaked)
	return &st, nil
}

// Update overwrites the mutable fields of an existing stats record.
func (s *StakerStatsStore) Update(ctx context.Context, st *domain.StakerStats) error {
	if err := checkBigintRange(st.TotalStaked); err != nil {
		return err
	}

	query := `
		UPDATE staker_stats
		SET total_staked = $2
		WHERE address = $1
	`

	tag, err := s.q.Exec(ctx, query, st.Address, int64(st.TotalStaked))
	if err != nil {
		return fmt.Errorf("update staker stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
