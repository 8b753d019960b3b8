package evmmax

import (
	"math/big"
	"testing"
)

func TestModExpOddModulus(t *testing.T) {
	base := big.NewInt(4)
	exp := big.NewInt(13)
	mod := big.NewInt(497) // odd, composite
	want := new(big.Int).Exp(base, exp, mod)

	got := new(big.Int).SetBytes(ModExp(base.Bytes(), exp.Bytes(), mod.Bytes()))
	if got.Cmp(want) != 0 {
		t.Fatalf("modexp odd mismatch: got %v want %v", got, want)
	}
}

func TestModExpPowerOfTwoModulus(t *testing.T) {
	base := big.NewInt(7)
	exp := big.NewInt(100)
	mod := big.NewInt(1024) // 2^10
	want := new(big.Int).Exp(base, exp, mod)

	got := new(big.Int).SetBytes(ModExp(base.Bytes(), exp.Bytes(), mod.Bytes()))
	if got.Cmp(want) != 0 {
		t.Fatalf("modexp pow2 mismatch: got %v want %v", got, want)
	}
}

func TestModExpEvenCompositeModulus(t *testing.T) {
	base := big.NewInt(5)
	exp := big.NewInt(17)
	mod := big.NewInt(60) // 2^2 * 15, even composite
	want := new(big.Int).Exp(base, exp, mod)

	got := new(big.Int).SetBytes(ModExp(base.Bytes(), exp.Bytes(), mod.Bytes()))
	if got.Cmp(want) != 0 {
		t.Fatalf("modexp even mismatch: got %v want %v", got, want)
	}
}

func TestModExpZeroExponent(t *testing.T) {
	mod := big.NewInt(13)
	got := new(big.Int).SetBytes(ModExp(big.NewInt(9).Bytes(), big.NewInt(0).Bytes(), mod.Bytes()))
	if got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("x^0 mod m should be 1, got %v", got)
	}
}

func TestModExpZeroModulus(t *testing.T) {
	out := ModExp([]byte{5}, []byte{3}, []byte{0})
	for _, b := range out {
		if b != 0 {
			t.Fatal("modexp with zero modulus should return all zero bytes")
		}
	}
}
