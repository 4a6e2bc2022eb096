package memory

import (
	"context"
	"errors"
	"testing"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// storesForTest opens a read/write view over a fresh ledger.
func storesForTest() storage.Store {
	return NewDB().Stores()
}

func TestPoolStore_InsertAndGet(t *testing.T) {
	s := storesForTest()
	ctx := context.Background()

	p := &domain.Pool{
		Address:          "pool-1",
		PoolID:           1,
		Creator:          "alice",
		TotalRewards:     500,
		CooldownDuration: 3600,
		State:            domain.PoolStateActive,
		CreatedAt:        1700000000000,
	}
	if err := s.Pools().Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.Pools().GetByAddress(ctx, "pool-1")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if got.Creator != "alice" || got.TotalRewards != 500 || got.State != domain.PoolStateActive {
		t.Errorf("pool mismatch: %+v", got)
	}
}

func TestPoolStore_DuplicateKey(t *testing.T) {
	s := storesForTest()
	ctx := context.Background()

	p := &domain.Pool{Address: "pool-1"}
	if err := s.Pools().Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Pools().Insert(ctx, p); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("duplicate insert: got %v, want %v", err, storage.ErrDuplicateKey)
	}
}

func TestPoolStore_UpdateMissing(t *testing.T) {
	s := storesForTest()
	ctx := context.Background()

	if err := s.Pools().Update(ctx, &domain.Pool{Address: "ghost"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("update missing: got %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := s.Pools().GetByAddress(ctx, "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get missing: got %v, want %v", err, storage.ErrNotFound)
	}
	if err := s.Pools().Insert(ctx, &domain.Pool{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty address: got %v, want %v", err, storage.ErrInvalidInput)
	}
}

func TestPoolStore_GetByCreatorOrdersByPoolID(t *testing.T) {
	s := storesForTest()
	ctx := context.Background()

	for _, id := range []uint64{3, 1, 2} {
		p := &domain.Pool{Address: "pool-" + string(rune('0'+id)), PoolID: id, Creator: "alice"}
		if err := s.Pools().Insert(ctx, p); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	_ = s.Pools().Insert(ctx, &domain.Pool{Address: "other", PoolID: 9, Creator: "bob"})

	pools, err := s.Pools().GetByCreator(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByCreator failed: %v", err)
	}
	if len(pools) != 3 {
		t.Fatalf("got %d pools, want 3", len(pools))
	}
	for i, want := range []uint64{1, 2, 3} {
		if pools[i].PoolID != want {
			t.Errorf("pool %d: got id %d, want %d", i, pools[i].PoolID, want)
		}
	}
}

func TestDepositStore_CRUD(t *testing.T) {
	s := storesForTest()
	ctx := context.Background()

	d := &domain.Deposit{Address: "dep-1", DepositID: 1, Pool: "pool-1", Staker: "alice", Amount: 100}
	if err := s.Deposits().Insert(ctx, d); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Deposits().Insert(ctx, d); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("duplicate insert: got %v", err)
	}

	d.Withdrawn = true
	d.ClaimedReward = 25
	if err := s.Deposits().Update(ctx, d); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := s.Deposits().GetByAddress(ctx, "dep-1")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if !got.Withdrawn || got.ClaimedReward != 25 {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestDepositStore_Listings(t *testing.T) {
	s := storesForTest()
	ctx := context.Background()

	deposits := []*domain.Deposit{
		{Address: "dep-b", Pool: "pool-1", Staker: "alice"},
		{Address: "dep-a", Pool: "pool-1", Staker: "bob"},
		{Address: "dep-c", Pool: "pool-2", Staker: "alice"},
	}
	for _, d := range deposits {
		if err := s.Deposits().Insert(ctx, d); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	byPool, err := s.Deposits().GetByPool(ctx, "pool-1")
	if err != nil {
		t.Fatalf("GetByPool failed: %v", err)
	}
	if len(byPool) != 2 || byPool[0].Address != "dep-a" || byPool[1].Address != "dep-b" {
		t.Errorf("GetByPool: got %+v", byPool)
	}

	byStaker, err := s.Deposits().GetByStaker(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByStaker failed: %v", err)
	}
	if len(byStaker) != 2 || byStaker[0].Address != "dep-b" || byStaker[1].Address != "dep-c" {
		t.Errorf("GetByStaker: got %+v", byStaker)
	}
}

func TestStakerStatsStore_CRUD(t *testing.T) {
	s := storesForTest()
	ctx := context.Background()

	st := &domain.StakerStats{Address: "stats-1", Staker: "alice", TotalStaked: 100}
	if err := s.StakerStats().Insert(ctx, st); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.StakerStats().Insert(ctx, st); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("duplicate insert: got %v", err)
	}

	st.TotalStaked = 150
	if err := s.StakerStats().Update(ctx, st); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := s.StakerStats().GetByAddress(ctx, "stats-1")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if got.TotalStaked != 150 {
		t.Errorf("TotalStaked: got %d, want 150", got.TotalStaked)
	}
}

func TestBalanceStore(t *testing.T) {
	s := storesForTest()
	ctx := context.Background()

	// Missing accounts read as zero.
	got, err := s.Balances().Get(ctx, "ghost")
	if err != nil || got != 0 {
		t.Errorf("missing account: got %d, %v", got, err)
	}

	if err := s.Balances().Add(ctx, "alice", 100); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Balances().Sub(ctx, "alice", 40); err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	got, _ = s.Balances().Get(ctx, "alice")
	if got != 60 {
		t.Errorf("balance: got %d, want 60", got)
	}

	if err := s.Balances().Sub(ctx, "alice", 61); !errors.Is(err, storage.ErrInsufficientBalance) {
		t.Errorf("overdraw: got %v, want %v", err, storage.ErrInsufficientBalance)
	}
	if err := s.Balances().Add(ctx, "", 1); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty account: got %v, want %v", err, storage.ErrInvalidInput)
	}
}
