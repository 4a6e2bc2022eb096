package domain

// StakerStats is the per-staker rollup of currently staked principal
// across all pools the staker participates in.
// Corresponds to staker_stats table in PostgreSQL.
type StakerStats struct {
	Address     string // PRIMARY KEY, PDA("staker-stats", staker)
	Staker      string // staker pubkey, base58
	TotalStaked uint64 // sum of Amount over the staker's non-withdrawn deposits
	CreatedAt   int64  // record creation timestamp (ms)
}
