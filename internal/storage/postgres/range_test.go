package postgres

import (
	"context"
	"errors"
	"math"
	"testing"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// Values above math.MaxInt64 do not fit the BIGINT columns. The guard
// rejects them before any query is issued, so these tests need no
// database.
func TestBigintRangeGuard(t *testing.T) {
	ctx := context.Background()
	over := uint64(math.MaxInt64) + 1

	if err := checkBigintRange(math.MaxInt64); err != nil {
		t.Errorf("MaxInt64 rejected: %v", err)
	}
	if err := checkBigintRange(over); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("MaxInt64+1: got %v, want %v", err, storage.ErrInvalidInput)
	}

	cases := []struct {
		name string
		call func() error
	}{
		{"pool insert", func() error {
			return (&PoolStore{}).Insert(ctx, &domain.Pool{Address: "p", TotalRewards: over})
		}},
		{"pool update", func() error {
			return (&PoolStore{}).Update(ctx, &domain.Pool{Address: "p", TotalStaked: over})
		}},
		{"deposit insert", func() error {
			return (&DepositStore{}).Insert(ctx, &domain.Deposit{Address: "d", Amount: over})
		}},
		{"deposit update", func() error {
			return (&DepositStore{}).Update(ctx, &domain.Deposit{Address: "d", ClaimedReward: over})
		}},
		{"stats insert", func() error {
			return (&StakerStatsStore{}).Insert(ctx, &domain.StakerStats{Address: "s", TotalStaked: over})
		}},
		{"stats update", func() error {
			return (&StakerStatsStore{}).Update(ctx, &domain.StakerStats{Address: "s", TotalStaked: over})
		}},
		{"balance add", func() error {
			return (&BalanceStore{}).Add(ctx, "acct", over)
		}},
		{"balance sub", func() error {
			return (&BalanceStore{}).Sub(ctx, "acct", over)
		}},
	}
	for _, tc := range cases {
		if err := tc.call(); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("%s: got %v, want %v", tc.name, err, storage.ErrInvalidInput)
		}
	}
}
