package staking

import (
	"context"
	"fmt"

	"solana-staking-vault/internal/addressing"
	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/observability"
	"solana-staking-vault/internal/storage"
)

// EnableEmergencyMode switches the pool into its terminal emergency
// state. Creator-only, one-way: there is no operation that reverses it.
func (e *Engine) EnableEmergencyMode(ctx context.Context, creator, poolAddress string) error {
	err := e.run(ctx, domain.OpEnableEmergencyMode, func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error) {
		pool, err := loadCreatorPool(ctx, s, creator, poolAddress)
		if err != nil {
			return nil, err
		}

		if !pool.EnterEmergency() {
			return nil, ErrEmergencyModeAlreadyEnabled
		}
		if err := s.Pools().Update(ctx, pool); err != nil {
			return nil, fmt.Errorf("update pool: %w", err)
		}

		return &domain.OperationEvent{
			Pool:  pool.Address,
			Actor: creator,
		}, nil
	})
	if err != nil {
		return err
	}
	observability.RecordPoolEmergency()
	return nil
}

// EmergencyUnstake pays back only the deposit's principal, bypassing
// the cooldown gate. Valid only while the pool is in emergency mode.
func (e *Engine) EmergencyUnstake(ctx context.Context, staker, depositAddress string) (principal uint64, err error) {
	var snapshot *domain.Pool
	err = e.run(ctx, domain.OpEmergencyUnstake, func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error) {
		deposit, err := loadOwnedDeposit(ctx, s, staker, depositAddress)
		if err != nil {
			return nil, err
		}
		pool, err := loadPool(ctx, s, deposit.Pool)
		if err != nil {
			return nil, err
		}

		if !pool.EmergencyEnabled() {
			return nil, ErrEmergencyModeNotEnabled
		}
		if deposit.Withdrawn {
			return nil, ErrDepositAlreadyWithdrawn
		}

		// Guard flag and counters first, transfer last.
		deposit.Withdrawn = true
		if err := s.Deposits().Update(ctx, deposit); err != nil {
			return nil, fmt.Errorf("update deposit: %w", err)
		}

		if err := dropStakerStats(ctx, s, staker, deposit.Amount); err != nil {
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

		principal = deposit.Amount
		snapshot = pool
		return &domain.OperationEvent{
			Pool:    pool.Address,
			Actor:   staker,
			Deposit: deposit.Address,
			Amount:  deposit.Amount,
		}, nil
	})
	if err != nil {
		return 0, err
	}
	observability.UpdatePoolGauges(snapshot.Address, snapshot.TotalStaked, snapshot.TotalRewards)
	return principal, nil
}

// WithdrawRewardsEmergency drains the pool's entire undistributed
// reward balance to the creator. Creator-only, emergency mode only.
// The balance is captured before it is zeroed so the amount transferred
// always equals the amount removed from the pool.
func (e *Engine) WithdrawRewardsEmergency(ctx context.Context, creator, poolAddress string) (amount uint64, err error) {
	var snapshot *domain.Pool
	err = e.run(ctx, domain.OpWithdrawRewardsEmergency, func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error) {
		pool, err := loadCreatorPool(ctx, s, creator, poolAddress)
		if err != nil {
			return nil, err
		}
		if !pool.EmergencyEnabled() {
			return nil, ErrEmergencyModeNotEnabled
		}

		captured := pool.TotalRewards
		pool.TotalRewards = 0
		if err := s.Pools().Update(ctx, pool); err != nil {
			return nil, fmt.Errorf("update pool: %w", err)
		}

		authority := addressing.VaultAuthority(pool.Address)
		if err := transfer(ctx, s, pool.Address, creator, authority, captured); err != nil {
			return nil, err
		}

		amount = captured
		snapshot = pool
		return &domain.OperationEvent{
			Pool:   pool.Address,
			Actor:  creator,
			Reward: captured,
		}, nil
	})
	if err != nil {
		return 0, err
	}
	observability.UpdatePoolGauges(snapshot.Address, snapshot.TotalStaked, snapshot.TotalRewards)
	return amount, nil
}
