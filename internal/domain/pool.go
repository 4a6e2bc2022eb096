package domain

// PoolState is the lifecycle state of a staking pool.
// The only legal transition is PoolStateActive -> PoolStateEmergency.
type PoolState string

const (
	// PoolStateActive accepts stakes and reward-bearing unstakes.
	PoolStateActive PoolState = "ACTIVE"
	// PoolStateEmergency disables stake/unstake and enables
	// principal-only withdrawal plus creator reward recovery.
	PoolStateEmergency PoolState = "EMERGENCY"
)

// Pool represents a staking pool owned by its creator.
// Corresponds to pools table in PostgreSQL.
type Pool struct {
	Address          string    // PRIMARY KEY, PDA("pool", creator, pool_id)
	PoolID           uint64    // creator-chosen numeric id
	Creator          string    // creator pubkey, base58
	TotalStaked      uint64    // sum of non-withdrawn deposit amounts
	TotalRewards     uint64    // undistributed reward balance
	CooldownDuration int64     // seconds; applies to cooldowns activated after any change
	State            PoolState // ACTIVE | EMERGENCY
	CreatedAt        int64     // record creation timestamp (ms)
}

// EmergencyEnabled reports whether the pool is in its terminal emergency state.
func (p *Pool) EmergencyEnabled() bool {
	return p.State == PoolStateEmergency
}

// EnterEmergency performs the one-way ACTIVE -> EMERGENCY transition.
// Returns false if the pool is already in emergency mode; there is no
// transition back.
func (p *Pool) EnterEmergency() bool {
	if p.State != PoolStateActive {
		return false
	}
	p.State = PoolStateEmergency
	return true
}
