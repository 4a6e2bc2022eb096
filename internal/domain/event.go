package domain

// OperationKind identifies one of the staking operations.
type OperationKind string

const (
	OpCreatePool               OperationKind = "CREATE_POOL"
	OpFundPool                 OperationKind = "FUND_POOL"
	OpChangeCooldown           OperationKind = "CHANGE_COOLDOWN"
	OpEnableEmergencyMode      OperationKind = "ENABLE_EMERGENCY_MODE"
	OpStake                    OperationKind = "STAKE"
	OpActivateCooldown         OperationKind = "ACTIVATE_COOLDOWN"
	OpUnstake                  OperationKind = "UNSTAKE"
	OpEmergencyUnstake         OperationKind = "EMERGENCY_UNSTAKE"
	OpWithdrawRewardsEmergency OperationKind = "WITHDRAW_REWARDS_EMERGENCY"
)

// OperationEvent records one committed operation for the archive and the
// live event feed. Corresponds to operation_events table in ClickHouse.
type OperationEvent struct {
	EventID   string        // unique hash, see idhash.ComputeEventID
	Kind      OperationKind // operation that committed
	Pool      string        // pool address
	Actor     string        // signer pubkey, base58
	Deposit   string        // deposit address, empty for pool-level operations
	Amount    uint64        // principal moved (stake amount, funding amount, ...)
	Reward    uint64        // reward paid out, 0 except UNSTAKE / WITHDRAW_REWARDS_EMERGENCY
	Timestamp int64         // operation time from the clock oracle, unix seconds
}
