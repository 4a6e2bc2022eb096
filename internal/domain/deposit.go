package domain

// Deposit represents a single stake event by one staker in one pool.
// Corresponds to deposits table in PostgreSQL.
type Deposit struct {
	Address        string // PRIMARY KEY, PDA("deposit", staker, pool_address, deposit_id)
	DepositID      uint64 // staker-chosen numeric id, unique per (staker, pool)
	Pool           string // pool address (foreign key, never a live reference)
	Staker         string // staker pubkey, base58
	Amount         uint64 // principal, immutable after creation
	ClaimedReward  uint64 // reward paid out at unstake, 0 until then
	UnlockTime     int64  // unix seconds; withdrawal permitted at or after this time
	CooldownActive bool   // set once by activateCooldown, never cleared
	Withdrawn      bool   // terminal; no mutation permitted once true
	CreatedAt      int64  // record creation timestamp (ms)
}
