package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
	"solana-staking-vault/internal/storage/postgres"
)

func TestBalanceStore_AddAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewBalanceStore(pool)
	ctx := context.Background()

	// Missing accounts read as zero.
	got, err := store.Get(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	require.NoError(t, store.Add(ctx, "alice", 100))
	require.NoError(t, store.Add(ctx, "alice", 50))

	got, err = store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(150), got)
}

func TestBalanceStore_SubGuardsBalance(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewBalanceStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "alice", 100))
	require.NoError(t, store.Sub(ctx, "alice", 40))

	got, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(60), got)

	err = store.Sub(ctx, "alice", 61)
	assert.ErrorIs(t, err, storage.ErrInsufficientBalance)

	// An account that does not exist cannot be debited.
	err = store.Sub(ctx, "ghost", 1)
	assert.ErrorIs(t, err, storage.ErrInsufficientBalance)
}

func TestDB_RunAtomicRollsBack(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	db := postgres.NewDB(pool)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := db.RunAtomic(ctx, func(ctx context.Context, s storage.Store) error {
		if err := s.Pools().Insert(ctx, &domain.Pool{
			Address: "PoolTx", PoolID: 1, Creator: "Creator",
			State: domain.PoolStateActive, CreatedAt: 1,
		}); err != nil {
			return err
		}
		if err := s.Balances().Add(ctx, "alice", 100); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = db.Stores().Pools().GetByAddress(ctx, "PoolTx")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	got, err := db.Stores().Balances().Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestDB_RunAtomicCommits(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	db := postgres.NewDB(pool)
	ctx := context.Background()

	err := db.RunAtomic(ctx, func(ctx context.Context, s storage.Store) error {
		if err := s.Balances().Add(ctx, "alice", 100); err != nil {
			return err
		}
		if err := s.Balances().Sub(ctx, "alice", 30); err != nil {
			return err
		}
		return s.Balances().Add(ctx, "bob", 30)
	})
	require.NoError(t, err)

	got, err := db.Stores().Balances().Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(70), got)
	got, err = db.Stores().Balances().Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(30), got)
}
