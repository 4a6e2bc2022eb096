package storage

import "context"

// Store is a view over all ledger record stores. During RunAtomic the
// view is transactional: every mutation made through it commits or rolls
// back as one unit together with the value transfers of the operation.
type Store interface {
	Pools() PoolStore
	Deposits() DepositStore
	StakerStats() StakerStatsStore
	Balances() BalanceStore
}

// DB executes operations against the ledger. It models the host
// transaction boundary: fn sees no partially applied state from other
// operations, and its own writes become visible only on commit.
type DB interface {
	// RunAtomic executes fn against a transactional store view.
	// A nil return commits; any error rolls back every mutation.
	RunAtomic(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
