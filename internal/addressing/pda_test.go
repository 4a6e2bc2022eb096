package addressing

import (
	"testing"

	"github.com/mr-tron/base58"
)

// Fixed 32-byte keys: bytes 0..31 and 1..32.
const (
	testCreator = "1thX6LZfHDZZKUs92febYZhYRcXddmzfzF2NvTkPNE"
	testStaker  = "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw"
)

// Derivation must never change once records exist: these are pinned
// outputs of the PDA algorithm for the production program id.
func TestDerivationVectors(t *testing.T) {
	pool, err := PoolAddress(testCreator, 1)
	if err != nil {
		t.Fatalf("PoolAddress failed: %v", err)
	}
	if want := "7xBvba7CE2ihz1yk3DGnr6Hh8MT2c77xwQtq4EkYM1pr"; pool != want {
		t.Errorf("PoolAddress: got %s, want %s", pool, want)
	}

	pool7, err := PoolAddress(testCreator, 7)
	if err != nil {
		t.Fatalf("PoolAddress failed: %v", err)
	}
	if want := "9gRLuoM9WKXrsSMig63gsMfvgUtGzSvR3GYpZUfCL6b"; pool7 != want {
		t.Errorf("PoolAddress id 7: got %s, want %s", pool7, want)
	}

	deposit, err := DepositAddress(testStaker, pool, 1)
	if err != nil {
		t.Fatalf("DepositAddress failed: %v", err)
	}
	if want := "7g9STXDn52UqMd1jhFdQLvGjUakT7BnbRSEPuBmmhW7i"; deposit != want {
		t.Errorf("DepositAddress: got %s, want %s", deposit, want)
	}

	stats, err := StakerStatsAddress(testStaker)
	if err != nil {
		t.Fatalf("StakerStatsAddress failed: %v", err)
	}
	if want := "CYKH4fhJT8ZkSGiysQL6uMiPtPoaUoeDmQov6dsGdtxM"; stats != want {
		t.Errorf("StakerStatsAddress: got %s, want %s", stats, want)
	}
}

func TestDerivationIsDeterministic(t *testing.T) {
	a, err := PoolAddress(testCreator, 42)
	if err != nil {
		t.Fatalf("PoolAddress failed: %v", err)
	}
	b, err := PoolAddress(testCreator, 42)
	if err != nil {
		t.Fatalf("PoolAddress failed: %v", err)
	}
	if a != b {
		t.Errorf("same inputs, different addresses: %s vs %s", a, b)
	}

	// Addresses are 32-byte keys in the same space as pubkeys.
	raw, err := base58.Decode(a)
	if err != nil {
		t.Fatalf("address is not base58: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("address length: got %d, want 32", len(raw))
	}
}

func TestDerivationPartitionsKeySpace(t *testing.T) {
	seen := make(map[string]bool)
	add := func(addr string, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("derive failed: %v", err)
		}
		if seen[addr] {
			t.Errorf("address collision: %s", addr)
		}
		seen[addr] = true
	}

	for id := uint64(0); id < 5; id++ {
		addr, err := PoolAddress(testCreator, id)
		add(addr, err)
	}
	pool, _ := PoolAddress(testCreator, 0)
	for id := uint64(0); id < 5; id++ {
		addr, err := DepositAddress(testStaker, pool, id)
		add(addr, err)
	}
	addr, err := StakerStatsAddress(testStaker)
	add(addr, err)

	// Different parties never share a stats address.
	other, err := StakerStatsAddress(testCreator)
	add(other, err)
}

func TestDerivationRejectsBadKeys(t *testing.T) {
	if _, err := PoolAddress("not base58 %%", 1); err == nil {
		t.Error("expected error for invalid base58")
	}
	// Valid base58 but not 32 bytes.
	short := base58.Encode([]byte{1, 2, 3})
	if _, err := PoolAddress(short, 1); err == nil {
		t.Error("expected error for short key")
	}
	if _, err := DepositAddress(testStaker, short, 1); err == nil {
		t.Error("expected error for short pool address")
	}
	if _, err := StakerStatsAddress(short); err == nil {
		t.Error("expected error for short staker key")
	}
}

func TestVaultAuthority(t *testing.T) {
	pool, err := PoolAddress(testCreator, 1)
	if err != nil {
		t.Fatalf("PoolAddress failed: %v", err)
	}
	if got := VaultAuthority(pool); got != pool {
		t.Errorf("VaultAuthority: got %s, want %s", got, pool)
	}
}
