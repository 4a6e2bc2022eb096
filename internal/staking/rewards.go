package staking

import "math/bits"

// EstimateRewards computes a staker's proportional share of the pool's
// reward balance: floor(userStaked * totalRewards / totalStaked).
//
// The product is computed in 128 bits so it cannot overflow the 64-bit
// amount width; only the final quotient is narrowed. Division floors
// toward zero and the residual dust stays in the pool's reward balance.
// TODO(product): confirm the dust-accumulation behavior is intended
// before adding any sweep or final-staker rounding adjustment.
func EstimateRewards(totalStaked, userStaked, totalRewards uint64) (uint64, error) {
	if totalStaked == 0 {
		return 0, ErrAmountOverflow
	}

	hi, lo := bits.Mul64(userStaked, totalRewards)
	// Div64 requires hi < divisor; userStaked <= totalStaked guarantees
	// the quotient fits in 64 bits, anything else is a corrupted pool.
	if hi >= totalStaked {
		return 0, ErrAmountOverflow
	}

	quo, _ := bits.Div64(hi, lo, totalStaked)
	return quo, nil
}

// checkedAdd returns a+b or ErrAmountOverflow.
func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// checkedSub returns a-b or ErrAmountOverflow on underflow.
func checkedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrAmountOverflow
	}
	return diff, nil
}
