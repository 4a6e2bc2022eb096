package storage

import (
	"context"

	"solana-staking-vault/internal/domain"
)

// PoolStore provides access to pools storage.
type PoolStore interface {
	// Insert adds a new pool. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, p *domain.Pool) error

	// GetByAddress retrieves a pool by its PDA. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.Pool, error)

	// Update overwrites the mutable fields of an existing pool.
	// Returns ErrNotFound if the pool does not exist.
	Update(ctx context.Context, p *domain.Pool) error

	// GetByCreator retrieves all pools created by a pubkey, ordered by pool_id ASC.
	GetByCreator(ctx context.Context, creator string) ([]*domain.Pool, error)
}

// DepositStore provides access to deposits storage.
type DepositStore interface {
	// Insert adds a new deposit. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, d *domain.Deposit) error

	// GetByAddress retrieves a deposit by its PDA. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.Deposit, error)

	// Update overwrites the mutable fields of an existing deposit.
	// Returns ErrNotFound if the deposit does not exist.
	Update(ctx context.Context, d *domain.Deposit) error

	// GetByPool retrieves all deposits referencing a pool, ordered by deposit address ASC.
	GetByPool(ctx context.Context, pool string) ([]*domain.Deposit, error)

	// GetByStaker retrieves all deposits owned by a staker, ordered by deposit address ASC.
	GetByStaker(ctx context.Context, staker string) ([]*domain.Deposit, error)
}

// StakerStatsStore provides access to staker_stats storage.
type StakerStatsStore interface {
	// Insert adds a new stats record. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, s *domain.StakerStats) error

	// GetByAddress retrieves a stats record by its PDA. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.StakerStats, error)

	// Update overwrites the mutable fields of an existing stats record.
	// Returns ErrNotFound if the record does not exist.
	Update(ctx context.Context, s *domain.StakerStats) error
}

// BalanceStore provides access to token account balances.
// It is the backing store of the vault adapter; nothing outside the
// vault package should move value through it directly.
type BalanceStore interface {
	// Get retrieves the balance of an account. Missing accounts read as 0.
	Get(ctx context.Context, account string) (uint64, error)

	// Add credits an account, creating it if missing.
	Add(ctx context.Context, account string, amount uint64) error

	// Sub debits an account. Returns ErrInsufficientBalance if the
	// balance is smaller than amount.
	Sub(ctx context.Context, account string, amount uint64) error
}

// OperationEventStore provides access to the operation_events archive.
type OperationEventStore interface {
	// Insert adds a single event. Returns ErrDuplicateKey if event_id exists.
	Insert(ctx context.Context, e *domain.OperationEvent) error

	// InsertBulk adds multiple events. Fails the entire batch on any duplicate.
	InsertBulk(ctx context.Context, events []*domain.OperationEvent) error

	// GetByPool retrieves all events for a pool, ordered by timestamp ASC, event_id ASC.
	GetByPool(ctx context.Context, pool string) ([]*domain.OperationEvent, error)

	// GetByTimeRange retrieves events with timestamp in [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.OperationEvent, error)
}
