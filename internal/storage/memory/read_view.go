package memory

import (
	"context"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// Stores returns a storage.Store view for read paths outside any
// operation. Each call takes the ledger lock for its duration, so
// reads never observe a half-applied operation.
func (db *DB) Stores() storage.Store {
	return &lockedView{db: db}
}

type lockedView struct {
	db *DB
}

func (v *lockedView) Pools() storage.PoolStore              { return lockedPoolStore{v.db} }
func (v *lockedView) Deposits() storage.DepositStore        { return lockedDepositStore{v.db} }
func (v *lockedView) StakerStats() storage.StakerStatsStore { return lockedStatsStore{v.db} }
func (v *lockedView) Balances() storage.BalanceStore        { return lockedBalanceStore{v.db} }

var _ storage.Store = (*lockedView)(nil)

type lockedPoolStore struct{ db *DB }

func (s lockedPoolStore) Insert(ctx context.Context, p *domain.Pool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&poolStore{db: s.db}).Insert(ctx, p)
}

func (s lockedPoolStore) GetByAddress(ctx context.Context, address string) (*domain.Pool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&poolStore{db: s.db}).GetByAddress(ctx, address)
}

func (s lockedPoolStore) Update(ctx context.Context, p *domain.Pool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&poolStore{db: s.db}).Update(ctx, p)
}

func (s lockedPoolStore) GetByCreator(ctx context.Context, creator string) ([]*domain.Pool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&poolStore{db: s.db}).GetByCreator(ctx, creator)
}

type lockedDepositStore struct{ db *DB }

func (s lockedDepositStore) Insert(ctx context.Context, d *domain.Deposit) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&depositStore{db: s.db}).Insert(ctx, d)
}

func (s lockedDepositStore) GetByAddress(ctx context.Context, address string) (*domain.Deposit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&depositStore{db: s.db}).GetByAddress(ctx, address)
}

func (s lockedDepositStore) Update(ctx context.Context, d *domain.Deposit) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&depositStore{db: s.db}).Update(ctx, d)
}

func (s lockedDepositStore) GetByPool(ctx context.Context, pool string) ([]*domain.Deposit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&depositStore{db: s.db}).GetByPool(ctx, pool)
}

func (s lockedDepositStore) GetByStaker(ctx context.Context, staker string) ([]*domain.Deposit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&depositStore{db: s.db}).GetByStaker(ctx, staker)
}

type lockedStatsStore struct{ db *DB }

func (s lockedStatsStore) Insert(ctx context.Context, st *domain.StakerStats) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&stakerStatsStore{db: s.db}).Insert(ctx, st)
}

func (s lockedStatsStore) GetByAddress(ctx context.Context, address string) (*domain.StakerStats, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&stakerStatsStore{db: s.db}).GetByAddress(ctx, address)
}

func (s lockedStatsStore) Update(ctx context.Context, st *domain.StakerStats) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&stakerStatsStore{db: s.db}).Update(ctx, st)
}

type lockedBalanceStore struct{ db *DB }

func (s lockedBalanceStore) Get(ctx context.Context, account string) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&balanceStore{db: s.db}).Get(ctx, account)
}

func (s lockedBalanceStore) Add(ctx context.Context, account string, amount uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&balanceStore{db: s.db}).Add(ctx, account, amount)
}

func (s lockedBalanceStore) Sub(ctx context.Context, account string, amount uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return (&balanceStore{db: s.db}).Sub(ctx, account, amount)
}
