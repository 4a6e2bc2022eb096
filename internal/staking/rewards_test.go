package staking

import (
	"errors"
	"math"
	"testing"
)

func TestEstimateRewards(t *testing.T) {
	tests := []struct {
		name         string
		totalStaked  uint64
		userStaked   uint64
		totalRewards uint64
		want         uint64
		wantErr      error
	}{
		{
			name:        "quarter share",
			totalStaked: 400, userStaked: 100, totalRewards: 1000,
			want: 250,
		},
		{
			name:        "full share",
			totalStaked: 300, userStaked: 300, totalRewards: 750,
			want: 750,
		},
		{
			name:        "floors toward zero",
			totalStaked: 3, userStaked: 1, totalRewards: 10,
			want: 3,
		},
		{
			name:        "zero rewards",
			totalStaked: 100, userStaked: 50, totalRewards: 0,
			want: 0,
		},
		{
			name:        "product exceeds 64 bits",
			totalStaked: 1 << 63, userStaked: 1 << 62, totalRewards: 1 << 62,
			want: 1 << 61,
		},
		{
			name:        "max values full share",
			totalStaked: math.MaxUint64, userStaked: math.MaxUint64, totalRewards: math.MaxUint64,
			want: math.MaxUint64,
		},
		{
			name:        "empty pool",
			totalStaked: 0, userStaked: 0, totalRewards: 100,
			wantErr: ErrAmountOverflow,
		},
		{
			name:        "quotient overflows 64 bits",
			totalStaked: 1, userStaked: math.MaxUint64, totalRewards: 2,
			wantErr: ErrAmountOverflow,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EstimateRewards(tc.totalStaked, tc.userStaked, tc.totalRewards)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got err %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("EstimateRewards failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCheckedArithmetic(t *testing.T) {
	if sum, err := checkedAdd(math.MaxUint64-1, 1); err != nil || sum != math.MaxUint64 {
		t.Errorf("checkedAdd: got %d, %v", sum, err)
	}
	if _, err := checkedAdd(math.MaxUint64, 1); !errors.Is(err, ErrAmountOverflow) {
		t.Errorf("checkedAdd overflow: got %v, want %v", err, ErrAmountOverflow)
	}
	if diff, err := checkedSub(10, 10); err != nil || diff != 0 {
		t.Errorf("checkedSub: got %d, %v", diff, err)
	}
	if _, err := checkedSub(0, 1); !errors.Is(err, ErrAmountOverflow) {
		t.Errorf("checkedSub underflow: got %v, want %v", err, ErrAmountOverflow)
	}
}
