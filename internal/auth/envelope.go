// Package auth verifies the signed envelopes operations arrive in.
// Every operation must carry a valid ed25519 signature from the party
// it names; record-level authority (pool creator, deposit owner) is
// checked separately by the engine.
package auth

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"errors"

	"github.com/mr-tron/base58"
)

// Envelope carries one signed operation request. Signature is ed25519
// over Digest(Operation, Payload); Signer and Signature are base58.
type Envelope struct {
	Operation string          `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
	Signer    string          `json:"signer"`
	Signature string          `json:"signature"`
}

// Envelope verification errors.
var (
	ErrBadPubkey    = errors.New("signer is not a valid base58 ed25519 public key")
	ErrBadSignature = errors.New("signature does not verify against signer and payload")
)

// Digest computes the signed message: SHA256(operation|payload).
// The payload bytes are signed exactly as transmitted; clients must not
// re-serialize between signing and sending.
func Digest(operation string, payload []byte) [32]byte {
	data := make([]byte, 0, len(operation)+1+len(payload))
	data = append(data, operation...)
	data = append(data, '|')
	data = append(data, payload...)
	return sha256.Sum256(data)
}

// Verify checks the envelope signature. A nil return means the payload
// was signed by the named signer.
func Verify(env *Envelope) error {
	pub, err := base58.Decode(env.Signer)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return ErrBadPubkey
	}

	sig, err := base58.Decode(env.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrBadSignature
	}

	digest := Digest(env.Operation, env.Payload)
	if !ed25519.Verify(ed25519.PublicKey(pub), digest[:], sig) {
		return ErrBadSignature
	}
	return nil
}

// Sign builds a signed envelope for an operation. Used by tests, the
// scenario runner and client tooling.
func Sign(priv ed25519.PrivateKey, operation string, payload []byte) *Envelope {
	digest := Digest(operation, payload)
	sig := ed25519.Sign(priv, digest[:])
	pub := priv.Public().(ed25519.PublicKey)

	return &Envelope{
		Operation: operation,
		Payload:   payload,
		Signer:    base58.Encode(pub),
		Signature: base58.Encode(sig),
	}
}
