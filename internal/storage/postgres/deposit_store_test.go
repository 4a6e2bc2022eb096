package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
	"solana-staking-vault/internal/storage/postgres"
)

func TestDepositStore_InsertAndGetByAddress(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDepositStore(pool)
	ctx := context.Background()

	d := &domain.Deposit{
		Address:        "DepAddr001",
		DepositID:      1,
		Pool:           "PoolAddr001",
		Staker:         "StakerPubkey001",
		Amount:         100,
		ClaimedReward:  0,
		UnlockTime:     1700003600,
		CooldownActive: false,
		Withdrawn:      false,
		CreatedAt:      1700000000000,
	}
	require.NoError(t, store.Insert(ctx, d))

	got, err := store.GetByAddress(ctx, "DepAddr001")
	require.NoError(t, err)

	assert.Equal(t, d.Address, got.Address)
	assert.Equal(t, d.DepositID, got.DepositID)
	assert.Equal(t, d.Pool, got.Pool)
	assert.Equal(t, d.Staker, got.Staker)
	assert.Equal(t, d.Amount, got.Amount)
	assert.Equal(t, d.UnlockTime, got.UnlockTime)
	assert.False(t, got.CooldownActive)
	assert.False(t, got.Withdrawn)

	err = store.Insert(ctx, d)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDepositStore_Update(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDepositStore(pool)
	ctx := context.Background()

	d := &domain.Deposit{
		Address: "DepAddrUpd", DepositID: 1, Pool: "PoolAddr001",
		Staker: "Staker001", Amount: 100, UnlockTime: 100, CreatedAt: 1,
	}
	require.NoError(t, store.Insert(ctx, d))

	d.CooldownActive = true
	d.UnlockTime = 5000
	d.Withdrawn = true
	d.ClaimedReward = 25
	require.NoError(t, store.Update(ctx, d))

	got, err := store.GetByAddress(ctx, "DepAddrUpd")
	require.NoError(t, err)
	assert.True(t, got.CooldownActive)
	assert.True(t, got.Withdrawn)
	assert.Equal(t, int64(5000), got.UnlockTime)
	assert.Equal(t, uint64(25), got.ClaimedReward)

	err = store.Update(ctx, &domain.Deposit{Address: "Missing", Amount: 1})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDepositStore_Listings(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDepositStore(pool)
	ctx := context.Background()

	deposits := []*domain.Deposit{
		{Address: "DepB", DepositID: 1, Pool: "PoolX", Staker: "Alice", Amount: 10, CreatedAt: 1},
		{Address: "DepA", DepositID: 2, Pool: "PoolX", Staker: "Bob", Amount: 20, CreatedAt: 1},
		{Address: "DepC", DepositID: 1, Pool: "PoolY", Staker: "Alice", Amount: 30, CreatedAt: 1},
	}
	for _, d := range deposits {
		require.NoError(t, store.Insert(ctx, d))
	}

	byPool, err := store.GetByPool(ctx, "PoolX")
	require.NoError(t, err)
	require.Len(t, byPool, 2)
	assert.Equal(t, "DepA", byPool[0].Address)
	assert.Equal(t, "DepB", byPool[1].Address)

	byStaker, err := store.GetByStaker(ctx, "Alice")
	require.NoError(t, err)
	require.Len(t, byStaker, 2)
	assert.Equal(t, "DepB", byStaker[0].Address)
	assert.Equal(t, "DepC", byStaker[1].Address)
}

func TestStakerStatsStore_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewStakerStatsStore(pool)
	ctx := context.Background()

	st := &domain.StakerStats{
		Address: "StatsAddr001", Staker: "Staker001",
		TotalStaked: 100, CreatedAt: 1700000000000,
	}
	require.NoError(t, store.Insert(ctx, st))

	err := store.Insert(ctx, st)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetByAddress(ctx, "StatsAddr001")
	require.NoError(t, err)
	assert.Equal(t, st.Staker, got.Staker)
	assert.Equal(t, uint64(100), got.TotalStaked)

	st.TotalStaked = 250
	require.NoError(t, store.Update(ctx, st))
	got, err = store.GetByAddress(ctx, "StatsAddr001")
	require.NoError(t, err)
	assert.Equal(t, uint64(250), got.TotalStaked)

	_, err = store.GetByAddress(ctx, "Missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
