package staking

import (
	"context"
	"errors"
	"fmt"

	"solana-staking-vault/internal/addressing"
	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/observability"
	"solana-staking-vault/internal/storage"
)

// Stake creates a deposit of amount in the pool and moves the amount
// from the staker's account into the pool vault. Blocked while the pool
// is in emergency mode.
func (e *Engine) Stake(ctx context.Context, staker, poolAddress string, depositID, amount uint64) (string, error) {
	if amount == 0 {
		return "", ErrZeroAmount
	}

	depositAddress, err := addressing.DepositAddress(staker, poolAddress, depositID)
	if err != nil {
		return "", ErrBadAddress
	}
	statsAddress, err := addressing.StakerStatsAddress(staker)
	if err != nil {
		return "", ErrBadAddress
	}

	var snapshot *domain.Pool
	err = e.run(ctx, domain.OpStake, func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error) {
		pool, err := loadPool(ctx, s, poolAddress)
		if err != nil {
			return nil, err
		}
		if pool.EmergencyEnabled() {
			return nil, ErrEmergencyModeEnabled
		}

		deposit := &domain.Deposit{
			Address:        depositAddress,
			DepositID:      depositID,
			Pool:           pool.Address,
			Staker:         staker,
			Amount:         amount,
			ClaimedReward:  0,
			UnlockTime:     now + pool.CooldownDuration,
			CooldownActive: false,
			Withdrawn:      false,
			CreatedAt:      now * 1000,
		}
		if err := s.Deposits().Insert(ctx, deposit); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				return nil, ErrDepositExists
			}
			return nil, fmt.Errorf("insert deposit: %w", err)
		}

		if err := bumpStakerStats(ctx, s, statsAddress, staker, amount, now); err != nil {
			return nil, err
		}

		pool.TotalStaked, err = checkedAdd(pool.TotalStaked, amount)
		if err != nil {
			return nil, err
		}
		if err := s.Pools().Update(ctx, pool); err != nil {
			return nil, fmt.Errorf("update pool: %w", err)
		}

		if err := transfer(ctx, s, staker, pool.Address, staker, amount); err != nil {
			return nil, err
		}

		snapshot = pool
		return &domain.OperationEvent{
			Pool:    pool.Address,
			Actor:   staker,
			Deposit: deposit.Address,
			Amount:  amount,
		}, nil
	})
	if err != nil {
		return "", err
	}
	observability.UpdatePoolGauges(snapshot.Address, snapshot.TotalStaked, snapshot.TotalRewards)
	return depositAddress, nil
}

// ActivateCooldown arms a deposit for withdrawal. Single-use per
// deposit: re-arming would let the unlock clock be reset indefinitely.
// The unlock time is computed from the pool's current cooldown
// duration, not the one captured at stake time.
func (e *Engine) ActivateCooldown(ctx context.Context, staker, depositAddress string) (int64, error) {
	var unlockTime int64
	err := e.run(ctx, domain.OpActivateCooldown, func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error) {
		deposit, err := loadOwnedDeposit(ctx, s, staker, depositAddress)
		if err != nil {
			return nil, err
		}
		if deposit.Withdrawn {
			return nil, ErrDepositAlreadyWithdrawn
		}
		if deposit.CooldownActive {
			return nil, ErrCooldownAlreadyActivated
		}

		pool, err := loadPool(ctx, s, deposit.Pool)
		if err != nil {
			return nil, err
		}

		deposit.CooldownActive = true
		deposit.UnlockTime = now + pool.CooldownDuration
		if err := s.Deposits().Update(ctx, deposit); err != nil {
			return nil, fmt.Errorf("update deposit: %w", err)
		}

		unlockTime = deposit.UnlockTime
		return &domain.OperationEvent{
			Pool:    pool.Address,
			Actor:   staker,
			Deposit: deposit.Address,
		}, nil
	})
	if err != nil {
		return 0, err
	}
	return unlockTime, nil
}

// Unstake pays back a deposit's principal plus its proportional share
// of the pool's reward balance. Requires an armed, elapsed cooldown and
// a pool not in emergency mode. Guard flags and counters are written
// before the vault transfers are issued.
func (e *Engine) Unstake(ctx context.Context, staker, depositAddress string) (principal, reward uint64, err error) {
	var snapshot *domain.Pool
	err = e.run(ctx, domain.OpUnstake, func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error) {
		deposit, err := loadOwnedDeposit(ctx, s, staker, depositAddress)
		if err != nil {
			return nil, err
		}
		pool, err := loadPool(ctx, s, deposit.Pool)
		if err != nil {
			return nil, err
		}

		// Precondition order is part of the contract: each failure mode
		// is distinct.
		if pool.EmergencyEnabled() {
			return nil, ErrEmergencyModeEnabled
		}
		if deposit.Withdrawn {
			return nil, ErrDepositAlreadyWithdrawn
		}
		if !deposit.CooldownActive {
			return nil, ErrCooldownNotActive
		}
		if now < deposit.UnlockTime {
			return nil, ErrCooldownNotElapsed
		}

		userReward, err := EstimateRewards(pool.TotalStaked, deposit.Amount, pool.TotalRewards)
		if err != nil {
			return nil, err
		}

		// All guard flags and counters are updated before any transfer.
		deposit.Withdrawn = true
		deposit.ClaimedReward = userReward
		if err := s.Deposits().Update(ctx, deposit); err != nil {
			return nil, fmt.Errorf("update deposit: %w", err)
		}

		if err := dropStakerStats(ctx, s, staker, deposit.Amount); err != nil {
			return nil, err
		}

		pool.TotalRewards, err = checkedSub(pool.TotalRewards, userReward)
		if err != nil {
			return nil, err
		}
		pool.TotalStaked, err = checkedSub(pool.TotalStaked, deposit.Amount)
		if err != nil {
			return nil, err
		}
		if err := s.Pools().Update(ctx, pool); err != nil {
			return nil, fmt.Errorf("update pool: %w", err)
		}

		authority := addressing.VaultAuthority(pool.Address)
		if err := transfer(ctx, s, pool.Address, staker, authority, deposit.Amount); err != nil {
			return nil, err
		}
		if err := transfer(ctx, s, pool.Address, staker, authority, userReward); err != nil {
			return nil, err
		}

		principal = deposit.Amount
		reward = userReward
		snapshot = pool
		return &domain.OperationEvent{
			Pool:    pool.Address,
			Actor:   staker,
			Deposit: deposit.Address,
			Amount:  deposit.Amount,
			Reward:  userReward,
		}, nil
	})
	if err != nil {
		return 0, 0, err
	}
	observability.UpdatePoolGauges(snapshot.Address, snapshot.TotalStaked, snapshot.TotalRewards)
	return principal, reward, nil
}

// bumpStakerStats adds amount to the staker's aggregate, creating the
// record lazily on first stake.
func bumpStakerStats(ctx context.Context, s storage.Store, address, staker string, amount uint64, now int64) error {
	stats, err := s.StakerStats().GetByAddress(ctx, address)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		stats = &domain.StakerStats{
			Address:     address,
			Staker:      staker,
			TotalStaked: amount,
			CreatedAt:   now * 1000,
		}
		if err := s.StakerStats().Insert(ctx, stats); err != nil {
			return fmt.Errorf("insert staker stats: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("load staker stats: %w", err)
	}

	stats.TotalStaked, err = checkedAdd(stats.TotalStaked, amount)
	if err != nil {
		return err
	}
	if err := s.StakerStats().Update(ctx, stats); err != nil {
		return fmt.Errorf("update staker stats: %w", err)
	}
	return nil
}

// dropStakerStats subtracts amount from the staker's aggregate.
func dropStakerStats(ctx context.Context, s storage.Store, staker string, amount uint64) error {
	address, err := addressing.StakerStatsAddress(staker)
	if err != nil {
		return ErrBadAddress
	}
	stats, err := s.StakerStats().GetByAddress(ctx, address)
	if err != nil {
		return fmt.Errorf("load staker stats: %w", err)
	}
	stats.TotalStaked, err = checkedSub(stats.TotalStaked, amount)
	if err != nil {
		return err
	}
	if err := s.StakerStats().Update(ctx, stats); err != nil {
		return fmt.Errorf("update staker stats: %w", err)
	}
	return nil
}
