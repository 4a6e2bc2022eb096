package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"solana-staking-vault/internal/domain"
)

// ComputeEventID computes a unique event_id using SHA256.
// Formula: SHA256(kind|pool|actor|deposit|amount|reward|timestamp|seq)
// seq must be unique per committed operation: the timestamp is
// second-granularity, so without it two identical operations in the
// same second would hash to the same id and the second would be
// rejected by the archive as a duplicate.
// Returns hex-encoded hash (64 characters).
func ComputeEventID(
	kind domain.OperationKind,
	pool string,
	actor string,
	deposit string,
	amount uint64,
	reward uint64,
	timestamp int64,
	seq uint64,
) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%d|%d|%d|%d",
		string(kind),
		pool,
		actor,
		deposit,
		amount,
		reward,
		timestamp,
		seq,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
