package vm

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/oi2996814/evmone/core/types"
)

func TestIsPrecompileGatedByRevision(t *testing.T) {
	if IsPrecompile(modexpAddr, Frontier) {
		t.Fatal("MODEXP must not be active before Byzantium")
	}
	if !IsPrecompile(modexpAddr, Byzantium) {
		t.Fatal("MODEXP must be active at Byzantium")
	}
	if IsPrecompile(p256VerifyAddr, Cancun) {
		t.Fatal("P256VERIFY must not be active before Prague")
	}
	if !IsPrecompile(p256VerifyAddr, Prague) {
		t.Fatal("P256VERIFY must be active at Prague")
	}
}

func TestPrecompiledContractsSetGrowsWithRevision(t *testing.T) {
	frontierSet := PrecompiledContracts(Frontier)
	if len(frontierSet) != 4 {
		t.Fatalf("Frontier precompile count = %d, want 4 (ECRECOVER/SHA256/RIPEMD160/IDENTITY)", len(frontierSet))
	}
	latestSet := PrecompiledContracts(Latest)
	if len(latestSet) != len(precompileRegistry) {
		t.Fatalf("Latest precompile count = %d, want %d", len(latestSet), len(precompileRegistry))
	}
}

func TestIdentityPrecompile(t *testing.T) {
	input := []byte("the quick brown fox")
	out, err := (&identityPrecompile{}).Run(input)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("identity output = %x, want %x", out, input)
	}
}

func TestSha256Precompile(t *testing.T) {
	input := []byte("hello")
	out, err := (&sha256Precompile{}).Run(input)
	if err != nil {
		t.Fatalf("sha256: %v", err)
	}
	want := sha256.Sum256(input)
	if !bytes.Equal(out, want[:]) {
		t.Fatalf("sha256 output = %x, want %x", out, want)
	}
}

func TestSha256RequiredGasChargesPerWord(t *testing.T) {
	c := &sha256Precompile{}
	if got := c.RequiredGas(make([]byte, 0)); got != 60 {
		t.Fatalf("RequiredGas(empty) = %d, want 60", got)
	}
	if got := c.RequiredGas(make([]byte, 32)); got != 72 {
		t.Fatalf("RequiredGas(32 bytes) = %d, want 72", got)
	}
}

func TestModexpBasic(t *testing.T) {
	// 3^2 mod 5 = 4, each field 1 byte wide.
	input := make([]byte, 0, 96+3)
	lenWord := func(n uint64) []byte {
		w := make([]byte, 32)
		w[31] = byte(n)
		return w
	}
	input = append(input, lenWord(1)...) // baseLen
	input = append(input, lenWord(1)...) // expLen
	input = append(input, lenWord(1)...) // modLen
	input = append(input, 3, 2, 5)       // base, exp, mod

	out, err := (&modexpPrecompile{}).Run(input)
	if err != nil {
		t.Fatalf("modexp: %v", err)
	}
	if len(out) != 1 || out[0] != 4 {
		t.Fatalf("modexp(3,2,5) = %v, want [4]", out)
	}
}

func TestRunPrecompileOutOfGas(t *testing.T) {
	_, _, err, ok := RunPrecompile(sha256Addr, Latest, []byte("x"), 1)
	if !ok {
		t.Fatal("sha256 should be recognized as a precompile")
	}
	if err != ErrOutOfGas {
		t.Fatalf("err = %v, want ErrOutOfGas", err)
	}
}

func TestRunPrecompileUnknownAddress(t *testing.T) {
	_, _, _, ok := RunPrecompile(types.BytesToAddress([]byte{0xff}), Latest, nil, 100000)
	if ok {
		t.Fatal("an address with no registered precompile must report ok=false")
	}
}

func TestRunPrecompileChargesAndReturnsLeftoverGas(t *testing.T) {
	out, gasLeft, err, ok := RunPrecompile(identityAddr, Latest, []byte{1, 2, 3}, 100)
	if !ok || err != nil {
		t.Fatalf("identity run failed: ok=%v err=%v", ok, err)
	}
	want := uint64(100) - (&identityPrecompile{}).RequiredGas([]byte{1, 2, 3})
	if gasLeft != want {
		t.Fatalf("gasLeft = %d, want %d", gasLeft, want)
	}
	if !bytes.Equal(out, []byte{1, 2, 3}) {
		t.Fatalf("output = %x, want 010203", out)
	}
}
