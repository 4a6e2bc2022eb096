// Package staking implements the staking pool lifecycle: pool creation
// and funding, deposit accounting, cooldown-gated unstaking,
// proportional reward distribution, and the emergency fail-safe path.
//
// Every operation executes as one atomic unit against the ledger:
// preconditions are checked before any mutation, guard flags are set
// before value transfers are issued, and any failure rolls the whole
// unit back.
package staking

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"solana-staking-vault/internal/clock"
	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/idhash"
	"solana-staking-vault/internal/observability"
	"solana-staking-vault/internal/storage"
	"solana-staking-vault/internal/vault"
)

// EventSink receives the operation event of every committed operation.
// Publish is called after the transaction commits, never for rollbacks.
type EventSink interface {
	Publish(e *domain.OperationEvent)
}

// NopSink discards events.
type NopSink struct{}

// Publish implements EventSink.
func (NopSink) Publish(*domain.OperationEvent) {}

// Engine executes staking operations against a ledger DB.
type Engine struct {
	db    storage.DB
	clock clock.Clock
	sink  EventSink

	// seq disambiguates event ids: the event timestamp has second
	// granularity, so identical operations committed in the same
	// second would otherwise collide in the archive. Seeded randomly
	// so ids stay unique across restarts.
	seq atomic.Uint64
}

// NewEngine creates an engine. A nil sink discards events.
func NewEngine(db storage.DB, clk clock.Clock, sink EventSink) *Engine {
	if sink == nil {
		sink = NopSink{}
	}
	e := &Engine{db: db, clock: clk, sink: sink}
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err == nil {
		e.seq.Store(binary.BigEndian.Uint64(seed[:]))
	}
	return e
}

// run executes one operation atomically: fn performs all validation,
// ledger mutation and value transfers against the transactional store
// view and returns the event describing the committed operation. The
// event is published and metered only after the commit succeeds.
func (e *Engine) run(
	ctx context.Context,
	kind domain.OperationKind,
	fn func(ctx context.Context, s storage.Store, now int64) (*domain.OperationEvent, error),
) error {
	start := time.Now()
	now := e.clock.Now()

	var event *domain.OperationEvent
	err := e.db.RunAtomic(ctx, func(ctx context.Context, s storage.Store) error {
		ev, err := fn(ctx, s, now)
		if err != nil {
			return err
		}
		event = ev
		return nil
	})

	observability.RecordOperation(string(kind), opStatus(err), time.Since(start).Seconds())
	if err != nil {
		return err
	}

	if event != nil {
		event.Kind = kind
		event.Timestamp = now
		event.EventID = idhash.ComputeEventID(
			event.Kind, event.Pool, event.Actor, event.Deposit,
			event.Amount, event.Reward, event.Timestamp, e.seq.Add(1),
		)
		e.sink.Publish(event)
	}
	return nil
}

func opStatus(err error) string {
	if err == nil {
		return "ok"
	}
	if code := Code(err); code != "" {
		return "rejected"
	}
	return "error"
}

// loadPool fetches a pool by address, mapping a missing record to the
// operation-level failure.
func loadPool(ctx context.Context, s storage.Store, address string) (*domain.Pool, error) {
	p, err := s.Pools().GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPoolNotFound
		}
		return nil, fmt.Errorf("load pool %s: %w", address, err)
	}
	return p, nil
}

// loadCreatorPool fetches a pool and verifies the signer is its creator.
func loadCreatorPool(ctx context.Context, s storage.Store, creator, address string) (*domain.Pool, error) {
	p, err := loadPool(ctx, s, address)
	if err != nil {
		return nil, err
	}
	if p.Creator != creator {
		return nil, ErrUnauthorizedPoolAccess
	}
	return p, nil
}

// loadOwnedDeposit fetches a deposit and verifies the signer owns it.
func loadOwnedDeposit(ctx context.Context, s storage.Store, staker, address string) (*domain.Deposit, error) {
	d, err := s.Deposits().GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, fmt.Errorf("load deposit %s: %w", address, err)
	}
	if d.Staker != staker {
		return nil, ErrUnauthorizedDepositAccess
	}
	return d, nil
}

// transfer issues a vault transfer inside the current atomic unit,
// mapping adapter failures to operation-level failures.
func transfer(ctx context.Context, s storage.Store, from, to, authority string, amount uint64) error {
	v := vault.New(s.Balances())
	if err := v.Transfer(ctx, from, to, authority, amount); err != nil {
		if errors.Is(err, vault.ErrInsufficientFunds) {
			return ErrInsufficientFunds
		}
		return fmt.Errorf("vault transfer: %w", err)
	}
	return nil
}
