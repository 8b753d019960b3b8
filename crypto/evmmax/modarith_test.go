package evmmax

import (
	"math/big"
	"testing"
)

func TestModArithRoundTrip(t *testing.T) {
	mod := secp256k1P
	arith := NewModArith(limbsFromBig(mod, 4))

	vals := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(12345),
		new(big.Int).Sub(mod, big.NewInt(1)),
	}
	for _, v := range vals {
		mont := arith.ToMont(limbsFromBig(v, 4))
		back := limbsToBig(arith.FromMont(mont))
		if back.Cmp(v) != 0 {
			t.Fatalf("round trip failed for %v: got %v", v, back)
		}
	}
}

func TestModArithMulMatchesBigInt(t *testing.T) {
	mod := secp256k1P
	arith := NewModArith(limbsFromBig(mod, 4))

	a := big.NewInt(123456789)
	b := big.NewInt(987654321)
	want := new(big.Int).Mod(new(big.Int).Mul(a, b), mod)

	aMont := arith.ToMont(limbsFromBig(a, 4))
	bMont := arith.ToMont(limbsFromBig(b, 4))
	gotMont := arith.Mul(aMont, bMont)
	got := limbsToBig(arith.FromMont(gotMont))

	if got.Cmp(want) != 0 {
		t.Fatalf("mul mismatch: got %v want %v", got, want)
	}
}

func TestModArithInv(t *testing.T) {
	mod := secp256k1P
	arith := NewModArith(limbsFromBig(mod, 4))

	a := big.NewInt(42)
	aMont := arith.ToMont(limbsFromBig(a, 4))
	invMont := arith.Inv(aMont)

	one := arith.Mul(aMont, invMont)
	oneCanon := limbsToBig(arith.FromMont(one))
	if oneCanon.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("a * a^-1 != 1, got %v", oneCanon)
	}
}

func TestModArithInvNonInvertibleIsZero(t *testing.T) {
	mod := big.NewInt(9)
	arith := NewModArith(limbsFromBig(mod, 1))

	x := big.NewInt(3) // gcd(3, 9) == 3, not invertible
	xMont := arith.ToMont(limbsFromBig(x, 1))
	invMont := arith.Inv(xMont)

	inv := limbsToBig(arith.FromMont(invMont))
	if inv.Sign() != 0 {
		t.Fatalf("Inv(3) mod 9 = %v, want 0 (gcd != 1)", inv)
	}
}

func TestModArithAddSub(t *testing.T) {
	mod := secp256k1P
	arith := NewModArith(limbsFromBig(mod, 4))

	a := big.NewInt(100)
	b := big.NewInt(58)
	aMont := arith.ToMont(limbsFromBig(a, 4))
	bMont := arith.ToMont(limbsFromBig(b, 4))

	sum := limbsToBig(arith.FromMont(arith.Add(aMont, bMont)))
	if sum.Cmp(big.NewInt(158)) != 0 {
		t.Fatalf("add mismatch: got %v", sum)
	}

	diff := limbsToBig(arith.FromMont(arith.Sub(aMont, bMont)))
	if diff.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("sub mismatch: got %v", diff)
	}
}
