// Package addressing derives the deterministic addresses of ledger
// records using the Solana Program Derived Address algorithm, so the
// key space matches the on-chain deployment byte-for-byte.
package addressing

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ProgramID is the staking program address all PDAs are derived against.
const ProgramID = "ZnxPrdCiNFeCA79TVCrx5v57CkftWL3yS3LxmToK4UK"

// PDA seed tags. These partition the key space per record type and must
// not change once records exist under them.
const (
	seedPool        = "pool"
	seedDeposit     = "deposit"
	seedStakerStats = "staker-stats"
)

// ErrNoBumpFound is returned when no bump seed in [1,255] yields an
// off-curve point. Practically unreachable for honest inputs.
var ErrNoBumpFound = errors.New("no valid bump seed found")

// PoolAddress derives the pool PDA for (creator, poolID).
// Seeds: "pool" | creator pubkey | pool_id little-endian u64.
func PoolAddress(creator string, poolID uint64) (string, error) {
	creatorBytes, err := decodePubkey(creator)
	if err != nil {
		return "", err
	}
	return derive([][]byte{
		[]byte(seedPool),
		creatorBytes,
		uint64LE(poolID),
	})
}

// DepositAddress derives the deposit PDA for (staker, pool, depositID).
// Seeds: "deposit" | staker pubkey | pool address | deposit_id little-endian u64.
func DepositAddress(staker, pool string, depositID uint64) (string, error) {
	stakerBytes, err := decodePubkey(staker)
	if err != nil {
		return "", err
	}
	poolBytes, err := decodePubkey(pool)
	if err != nil {
		return "", err
	}
	return derive([][]byte{
		[]byte(seedDeposit),
		stakerBytes,
		poolBytes,
		uint64LE(depositID),
	})
}

// StakerStatsAddress derives the staker stats PDA for a staker.
// Seeds: "staker-stats" | staker pubkey.
func StakerStatsAddress(staker string) (string, error) {
	stakerBytes, err := decodePubkey(staker)
	if err != nil {
		return "", err
	}
	return derive([][]byte{
		[]byte(seedStakerStats),
		stakerBytes,
	})
}

// VaultAuthority returns the capability token the vault adapter accepts
// for outgoing transfers from a pool's vault account. The pool address
// itself is the authority: holding the pool record's identity is what
// authorizes moving its funds, not a held secret.
func VaultAuthority(poolAddress string) string {
	return poolAddress
}

// derive runs the Solana PDA algorithm:
// sha256(seeds | bump | program_id | "ProgramDerivedAddress"), searching
// bump seeds from 255 downward for the first off-curve point.
func derive(seeds [][]byte) (string, error) {
	programID, err := decodePubkey(ProgramID)
	if err != nil {
		return "", err
	}

	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0, 128)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:]), nil
		}
	}

	return "", ErrNoBumpFound
}

// isOnCurve reports whether point is a valid ed25519 curve point.
// PDAs must be off-curve so no keypair can ever sign for them.
func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// decodePubkey decodes a base58 pubkey and checks its length.
func decodePubkey(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) != 32 {
		return nil, errors.New("pubkey must be 32 bytes")
	}
	return b, nil
}

func uint64LE(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}
