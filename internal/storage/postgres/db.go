package postgres

import (
	"context"
	"fmt"
	"time"

	"solana-staking-vault/internal/observability"
	"solana-staking-vault/internal/storage"
)

// DB implements storage.DB over a pgx connection pool. Every operation
// runs inside a single SQL transaction: record mutations and balance
// movements commit or roll back together, which is the host ledger's
// atomicity guarantee. Row-level locking on the touched records
// serializes conflicting operations.
type DB struct {
	pool *Pool
}

// NewDB creates a ledger DB over a connection pool.
func NewDB(pool *Pool) *DB {
	return &DB{pool: pool}
}

// RunAtomic implements storage.DB.
func (db *DB) RunAtomic(ctx context.Context, fn func(ctx context.Context, s storage.Store) error) (err error) {
	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "run_atomic", time.Since(start).Seconds(), err)
	}()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err = fn(ctx, &txStore{q: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Stores returns a non-transactional store view for read paths.
func (db *DB) Stores() storage.Store {
	return &txStore{q: db.pool}
}

// txStore binds the record stores to one querier (pool or transaction).
type txStore struct {
	q querier
}

func (s *txStore) Pools() storage.PoolStore              { return &PoolStore{q: s.q} }
func (s *txStore) Deposits() storage.DepositStore        { return &DepositStore{q: s.q} }
func (s *txStore) StakerStats() storage.StakerStatsStore { return &StakerStatsStore{q: s.q} }
func (s *txStore) Balances() storage.BalanceStore        { return &BalanceStore{q: s.q} }

var _ storage.DB = (*DB)(nil)
var _ storage.Store = (*txStore)(nil)
