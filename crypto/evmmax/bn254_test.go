package evmmax

import (
	"math/big"
	"testing"
)

// bePad returns n as a 32-byte big-endian slice, left-padded with zeros.
func bePad(n *big.Int) []byte {
	out := make([]byte, 32)
	b := n.Bytes()
	copy(out[32-len(b):], b)
	return out
}

func bn254GeneratorBytes() []byte {
	// The standard BN254 G1 generator is (1, 2), on-curve since y^2 = x^3+3
	// and 1+3=4=2^2.
	return append(bePad(big.NewInt(1)), bePad(big.NewInt(2))...)
}

func TestBN254AddIdentityIsNoop(t *testing.T) {
	g := bn254GeneratorBytes()
	infinity := make([]byte, 64)

	got, ok := BN254Add(g, infinity)
	if !ok {
		t.Fatal("BN254Add(G, infinity) must succeed")
	}
	for i := range got {
		if got[i] != g[i] {
			t.Fatalf("BN254Add(G, infinity) = %x, want %x", got, g)
		}
	}
}

func TestBN254AddRejectsOutOfRangeCoordinate(t *testing.T) {
	point := append(bePad(bn254P), make([]byte, 32)...)
	infinity := make([]byte, 64)

	_, ok := BN254Add(point, infinity)
	if ok {
		t.Fatal("BN254Add must reject a coordinate >= the field modulus")
	}
}

func TestBN254AddRejectsOffCurvePoint(t *testing.T) {
	one := bePad(big.NewInt(1))
	point := append(append([]byte{}, one...), one...) // (1, 1) is not on BN254
	infinity := make([]byte, 64)

	_, ok := BN254Add(point, infinity)
	if ok {
		t.Fatal("BN254Add must reject a point not on the curve")
	}
}

func TestBN254MulByZeroIsInfinity(t *testing.T) {
	g := bn254GeneratorBytes()
	got, ok := BN254Mul(g, make([]byte, 32))
	if !ok {
		t.Fatal("BN254Mul(G, 0) must succeed")
	}
	for _, b := range got {
		if b != 0 {
			t.Fatalf("BN254Mul(G, 0) = %x, want the point at infinity", got)
		}
	}
}

func TestBN254PairingEmptyInputAccepts(t *testing.T) {
	ok, valid := BN254Pairing(nil)
	if !valid || !ok {
		t.Fatal("BN254Pairing with no pairs must be accepting")
	}
}

func TestBN254PairingRejectsOutOfRangeCoordinate(t *testing.T) {
	var chunk [192]byte
	copy(chunk[0:32], bePad(bn254P))
	chunk[63] = 1 // y = 1, x out of range
	_, valid := BN254Pairing([][192]byte{chunk})
	if valid {
		t.Fatal("BN254Pairing must reject a G1 coordinate >= the field modulus")
	}
}
