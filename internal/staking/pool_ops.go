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

// CreatePool creates a new staking pool owned by creator. The pool id
// must be fresh for that creator. If initialFunding > 0 the amount is
// moved from the creator's account into the pool vault; a failed
// transfer aborts the creation entirely.
func (e *Engine) CreatePool(ctx context.Context, creator string, poolID, initialFunding uint64, cooldownDuration int64) (string, error) {
	if cooldownDuration < 0 {
		return "", ErrNegativeCooldown
	}

	address, err := addressing.PoolAddress(creator, poolID)
	if err != nil {
		return "", ErrBadAddress
	}

	err = e.run(ctx, domain.OpCreatePool, func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error) {
		pool := &domain.Pool{
			Address:          address,
			PoolID:           poolID,
			Creator:          creator,
			TotalStaked:      0,
			TotalRewards:     initialFunding,
			CooldownDuration: cooldownDuration,
			State:            domain.PoolStateActive,
			CreatedAt:        now * 1000,
		}
		if err := s.Pools().Insert(ctx, pool); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				return nil, ErrPoolExists
			}
			return nil, fmt.Errorf("insert pool: %w", err)
		}

		if initialFunding > 0 {
			if err := transfer(ctx, s, creator, address, creator, initialFunding); err != nil {
				return nil, err
			}
		}

		return &domain.OperationEvent{
			Pool:   address,
			Actor:  creator,
			Amount: initialFunding,
		}, nil
	})
	if err != nil {
		return "", err
	}
	observability.UpdatePoolGauges(address, 0, initialFunding)
	return address, nil
}

// FundPool moves amount from the creator's account into the pool vault
// and grows the undistributed reward balance. Creator-only.
func (e *Engine) FundPool(ctx context.Context, creator, poolAddress string, amount uint64) error {
	var snapshot *domain.Pool
	err := e.run(ctx, domain.OpFundPool, func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error) {
		pool, err := loadCreatorPool(ctx, s, creator, poolAddress)
		if err != nil {
			return nil, err
		}

		pool.TotalRewards, err = checkedAdd(pool.TotalRewards, amount)
		if err != nil {
			return nil, err
		}
		if err := s.Pools().Update(ctx, pool); err != nil {
			return nil, fmt.Errorf("update pool: %w", err)
		}

		if err := transfer(ctx, s, creator, pool.Address, creator, amount); err != nil {
			return nil, err
		}

		snapshot = pool
		return &domain.OperationEvent{
			Pool:   pool.Address,
			Actor:  creator,
			Amount: amount,
		}, nil
	})
	if err != nil {
		return err
	}
	observability.UpdatePoolGauges(snapshot.Address, snapshot.TotalStaked, snapshot.TotalRewards)
	return nil
}

// ChangeCooldown sets the pool's cooldown duration. Creator-only.
// Only cooldowns activated after the change use the new duration;
// already-armed deposits keep their computed unlock time.
func (e *Engine) ChangeCooldown(ctx context.Context, creator, poolAddress string, newDuration int64) error {
	if newDuration < 0 {
		return ErrNegativeCooldown
	}

	return e.run(ctx, domain.OpChangeCooldown, func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error) {
		pool, err := loadCreatorPool(ctx, s, creator, poolAddress)
		if err != nil {
			return nil, err
		}

		pool.CooldownDuration = newDuration
		if err := s.Pools().Update(ctx, pool); err != nil {
			return nil, fmt.Errorf("update pool: %w", err)
		}

		return &domain.OperationEvent{
			Pool:  pool.Address,
			Actor: creator,
		}, nil
	})
}
