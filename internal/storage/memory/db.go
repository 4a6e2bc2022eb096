// Package memory provides in-memory storage implementations for tests,
// simulations and single-process deployments.
package memory

import (
	"context"
	"sync"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// DB is an in-memory ledger. Operations are serialized under one lock;
// a failed operation restores the pre-operation snapshot, so callers
// observe the same all-or-nothing semantics as the SQL implementation.
//
// Record structs in the maps are never mutated in place: every insert
// and update stores a fresh copy. Snapshots can therefore share entry
// pointers with the live maps.
type DB struct {
	mu       sync.Mutex
	pools    map[string]*domain.Pool
	deposits map[string]*domain.Deposit
	stats    map[string]*domain.StakerStats
	balances map[string]uint64
}

// NewDB creates an empty in-memory ledger.
func NewDB() *DB {
	return &DB{
		pools:    make(map[string]*domain.Pool),
		deposits: make(map[string]*domain.Deposit),
		stats:    make(map[string]*domain.StakerStats),
		balances: make(map[string]uint64),
	}
}

// RunAtomic implements storage.DB.
func (db *DB) RunAtomic(ctx context.Context, fn func(ctx context.Context, s storage.Store) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	snap := db.snapshot()
	if err := fn(ctx, &txView{db: db}); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

// Credit adds amount to an account balance outside any operation.
// Intended for seeding scenarios and tests.
func (db *DB) Credit(account string, amount uint64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.balances[account] += amount
}

type dbSnapshot struct {
	pools    map[string]*domain.Pool
	deposits map[string]*domain.Deposit
	stats    map[string]*domain.StakerStats
	balances map[string]uint64
}

func (db *DB) snapshot() dbSnapshot {
	snap := dbSnapshot{
		pools:    make(map[string]*domain.Pool, len(db.pools)),
		deposits: make(map[string]*domain.Deposit, len(db.deposits)),
		stats:    make(map[string]*domain.StakerStats, len(db.stats)),
		balances: make(map[string]uint64, len(db.balances)),
	}
	for k, v := range db.pools {
		snap.pools[k] = v
	}
	for k, v := range db.deposits {
		snap.deposits[k] = v
	}
	for k, v := range db.stats {
		snap.stats[k] = v
	}
	for k, v := range db.balances {
		snap.balances[k] = v
	}
	return snap
}

func (db *DB) restore(snap dbSnapshot) {
	db.pools = snap.pools
	db.deposits = snap.deposits
	db.stats = snap.stats
	db.balances = snap.balances
}

// txView is the transactional store view handed to an operation. The DB
// lock is already held for the whole operation, so the individual
// stores access the maps directly.
type txView struct {
	db *DB
}

func (v *txView) Pools() storage.PoolStore              { return &poolStore{db: v.db} }
func (v *txView) Deposits() storage.DepositStore        { return &depositStore{db: v.db} }
func (v *txView) StakerStats() storage.StakerStatsStore { return &stakerStatsStore{db: v.db} }
func (v *txView) Balances() storage.BalanceStore        { return &balanceStore{db: v.db} }

var _ storage.DB = (*DB)(nil)
var _ storage.Store = (*txView)(nil)
