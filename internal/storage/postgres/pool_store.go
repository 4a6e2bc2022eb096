package postgres

import (
	"context"
	"fmt"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// PoolStore implements storage.PoolStore using PostgreSQL.
type PoolStore struct {
	q querier
}

// NewPoolStore creates a PoolStore for non-transactional use.
func NewPoolStore(pool *Pool) *PoolStore {
	return &PoolStore{q: pool}
}

// Compile-time interface check.
var _ storage.PoolStore = (*PoolStore)(nil)

// Insert adds a new pool. Returns ErrDuplicateKey if the address exists.
func (s *PoolStore) Insert(ctx context.Context, p *domain.Pool) error {
	if err := checkBigintRange(p.PoolID, p.TotalStaked, p.TotalRewards); err != nil {
		return err
	}

	query := `
		INSERT INTO pools (
			address, pool_id, creator, total_staked, total_rewards, cooldown_duration, state, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.q.Exec(ctx, query,
		p.Address,
		int64(p.PoolID),
		p.Creator,
		int64(p.TotalStaked),
		int64(p.TotalRewards),
		p.CooldownDuration,
		string(p.State),
		p.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert pool: %w", err)
	}
	return nil
}

// GetByAddress retrieves a pool by its PDA. Returns ErrNotFound if not
// exists. Inside a transaction the row is locked for the duration of
// the operation.
func (s *PoolStore) GetByAddress(ctx context.Context, address string) (*domain.Pool, error) {
	query := `
		SELECT address, pool_id, creator, total_staked, total_rewards, cooldown_duration, state, created_at
		FROM pools
		WHERE address = $1
		FOR UPDATE
	`

	row := s.q.QueryRow(ctx, query, address)
	p, err := scanPool(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pool by address: %w", err)
	}
	return p, nil
}

// Update overwrites the mutable fields of an existing pool.
func (s *PoolStore) Update(ctx context.Context, p *domain.Pool) error {
	if err := checkBigintRange(p.TotalStaked, p.TotalRewards); err != nil {
		return err
	}

	query := `
		UPDATE pools
		SET total_staked = $2, total_rewards = $3, cooldown_duration = $4, state = $5
		WHERE address = $1
	`

	tag, err := s.q.Exec(ctx, query,
		p.Address,
		int64(p.TotalStaked),
		int64(p.TotalRewards),
		p.CooldownDuration,
		string(p.State),
	)
	if err != nil {
		return fmt.Errorf("update pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByCreator retrieves all pools created by a pubkey, ordered by pool_id ASC.
func (s *PoolStore) GetByCreator(ctx context.Context, creator string) ([]*domain.Pool, error) {
	query := `
		SELECT address, pool_id, creator, total_staked, total_rewards, cooldown_duration, state, created_at
		FROM pools
		WHERE creator = $1
		ORDER BY pool_id ASC
	`

	rows, err := s.q.Query(ctx, query, creator)
	if err != nil {
		return nil, fmt.Errorf("get pools by creator: %w", err)
	}
	defer rows.Close()

	var pools []*domain.Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pool row: %w", err)
		}
		pools = append(pools, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool rows: %w", err)
	}
	return pools, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPool scans a single row into a Pool.
func scanPool(row rowScanner) (*domain.Pool, error) {
	var p domain.Pool
	var poolID, totalStaked, totalRewards int64
	var stateStr string

	err := row.Scan(
		&p.Address,
		&poolID,
		&p.Creator,
		&totalStaked,
		&totalRewards,
		&p.CooldownDuration,
		&stateStr,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.PoolID = uint64(poolID)
	p.TotalStaked = uint64(totalStaked)
	p.TotalRewards = uint64(totalRewards)
	p.State = domain.PoolState(stateStr)
	return &p, nil
}
