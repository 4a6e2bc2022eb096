package clickhouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
	"solana-staking-vault/internal/storage/clickhouse"
)

func TestOperationEventStore_InsertAndGetByPool(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewOperationEventStore(conn)
	ctx := context.Background()

	events := []*domain.OperationEvent{
		{EventID: "ev-2", Kind: domain.OpStake, Pool: "PoolA", Actor: "Bob", Deposit: "DepB", Amount: 300, Timestamp: 200},
		{EventID: "ev-1", Kind: domain.OpCreatePool, Pool: "PoolA", Actor: "Alice", Amount: 500, Timestamp: 100},
		{EventID: "ev-3", Kind: domain.OpUnstake, Pool: "PoolA", Actor: "Bob", Deposit: "DepB", Amount: 300, Reward: 750, Timestamp: 300},
		{EventID: "ev-other", Kind: domain.OpCreatePool, Pool: "PoolB", Actor: "Carol", Timestamp: 150},
	}
	require.NoError(t, store.InsertBulk(ctx, events))

	got, err := store.GetByPool(ctx, "PoolA")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by timestamp, then event id.
	assert.Equal(t, "ev-1", got[0].EventID)
	assert.Equal(t, "ev-2", got[1].EventID)
	assert.Equal(t, "ev-3", got[2].EventID)

	assert.Equal(t, domain.OpUnstake, got[2].Kind)
	assert.Equal(t, "Bob", got[2].Actor)
	assert.Equal(t, "DepB", got[2].Deposit)
	assert.Equal(t, uint64(300), got[2].Amount)
	assert.Equal(t, uint64(750), got[2].Reward)
	assert.Equal(t, int64(300), got[2].Timestamp)
}

func TestOperationEventStore_DuplicateEventID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewOperationEventStore(conn)
	ctx := context.Background()

	e := &domain.OperationEvent{EventID: "ev-dup", Kind: domain.OpStake, Pool: "PoolA", Actor: "Alice", Timestamp: 100}
	require.NoError(t, store.Insert(ctx, e))

	err := store.Insert(ctx, e)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Duplicates inside one batch are rejected before anything is sent.
	err = store.InsertBulk(ctx, []*domain.OperationEvent{
		{EventID: "ev-batch", Kind: domain.OpStake, Pool: "PoolA", Actor: "Alice", Timestamp: 100},
		{EventID: "ev-batch", Kind: domain.OpStake, Pool: "PoolA", Actor: "Alice", Timestamp: 100},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestOperationEventStore_GetByTimeRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewOperationEventStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.OperationEvent{
		{EventID: "ev-1", Kind: domain.OpStake, Pool: "PoolA", Actor: "Alice", Timestamp: 100},
		{EventID: "ev-2", Kind: domain.OpStake, Pool: "PoolA", Actor: "Alice", Timestamp: 200},
		{EventID: "ev-3", Kind: domain.OpStake, Pool: "PoolA", Actor: "Alice", Timestamp: 300},
	}))

	// Bounds are inclusive.
	got, err := store.GetByTimeRange(ctx, 100, 200)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ev-1", got[0].EventID)
	assert.Equal(t, "ev-2", got[1].EventID)

	got, err = store.GetByTimeRange(ctx, 400, 500)
	require.NoError(t, err)
	assert.Empty(t, got)
}
