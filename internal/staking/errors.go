package staking

import "errors"

// Error kinds. Every operation failure unwraps to exactly one kind, so
// callers can branch on taxonomy with errors.Is without enumerating
// every concrete failure.
var (
	// ErrValidation covers malformed or out-of-range input.
	ErrValidation = errors.New("validation error")

	// ErrAuthorization covers a signer that is not the required
	// authorizing party for the targeted record.
	ErrAuthorization = errors.New("authorization error")

	// ErrState covers operations invalid for the record's current state.
	ErrState = errors.New("state error")

	// ErrArithmetic covers overflow in intermediate computation.
	ErrArithmetic = errors.New("arithmetic error")

	// ErrResource covers vault balances insufficient for a required transfer.
	ErrResource = errors.New("resource error")
)

// opError is a concrete operation failure carrying a stable machine
// code and unwrapping to its kind sentinel.
type opError struct {
	kind error
	code string
	msg  string
}

func (e *opError) Error() string { return e.msg }
func (e *opError) Unwrap() error { return e.kind }

func newError(kind error, code, msg string) *opError {
	return &opError{kind: kind, code: code, msg: msg}
}

// Concrete failures, one per condition, mirroring the on-chain error
// enumeration. Compare with errors.Is.
var (
	// Validation
	ErrPoolExists       = newError(ErrValidation, "POOL_EXISTS", "pool id already exists")
	ErrDepositExists    = newError(ErrValidation, "DEPOSIT_EXISTS", "deposit id already exists")
	ErrPoolNotFound     = newError(ErrValidation, "POOL_NOT_FOUND", "pool does not exist")
	ErrDepositNotFound  = newError(ErrValidation, "DEPOSIT_NOT_FOUND", "deposit does not exist")
	ErrZeroAmount       = newError(ErrValidation, "ZERO_AMOUNT", "amount must be greater than zero")
	ErrNegativeCooldown = newError(ErrValidation, "NEGATIVE_COOLDOWN", "cooldown duration must not be negative")
	ErrBadAddress       = newError(ErrValidation, "BAD_ADDRESS", "malformed base58 address")

	// Authorization
	ErrUnauthorizedPoolAccess    = newError(ErrAuthorization, "UNAUTHORIZED_POOL_ACCESS", "signer is not the pool creator")
	ErrUnauthorizedDepositAccess = newError(ErrAuthorization, "UNAUTHORIZED_DEPOSIT_ACCESS", "signer is not the deposit owner")

	// State
	ErrEmergencyModeEnabled        = newError(ErrState, "EMERGENCY_MODE_ENABLED", "emergency mode is enabled")
	ErrEmergencyModeNotEnabled     = newError(ErrState, "EMERGENCY_MODE_NOT_ENABLED", "emergency mode is not enabled")
	ErrEmergencyModeAlreadyEnabled = newError(ErrState, "EMERGENCY_MODE_ALREADY_ENABLED", "emergency mode already enabled")
	ErrDepositAlreadyWithdrawn     = newError(ErrState, "DEPOSIT_ALREADY_WITHDRAWN", "deposit already withdrawn")
	ErrCooldownAlreadyActivated    = newError(ErrState, "COOLDOWN_ALREADY_ACTIVATED", "cooldown already activated")
	ErrCooldownNotActive           = newError(ErrState, "COOLDOWN_NOT_ACTIVE", "claim cooldown is not active")
	ErrCooldownNotElapsed          = newError(ErrState, "COOLDOWN_NOT_ELAPSED", "claim cooldown has not elapsed")

	// Arithmetic
	ErrAmountOverflow = newError(ErrArithmetic, "AMOUNT_OVERFLOW", "amount overflows 64-bit accounting")

	// Resource
	ErrInsufficientFunds = newError(ErrResource, "INSUFFICIENT_FUNDS", "vault balance insufficient for transfer")
)

// Code returns the stable machine code of an operation failure, or
// empty if err is not one.
func Code(err error) string {
	var oe *opError
	if errors.As(err, &oe) {
		return oe.code
	}
	return ""
}

// Kind returns the taxonomy sentinel an operation failure belongs to,
// or nil if err is not one.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrAuthorization, ErrState, ErrArithmetic, ErrResource} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
