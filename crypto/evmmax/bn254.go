package evmmax

import (
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

var (
	bn254P, _ = new(big.Int).SetString("30644e72e131a029b85045b68181585d97816a916871ca8d3c208c16d87cfd47", 16)
	bn254N, _ = new(big.Int).SetString("30644e72e131a029b85045b68181585d2833e84879b9709143e1f593f0000001", 16)
)

var bn254Curve = &Curve{
	FieldMod: bn254P,
	Order:    bn254N,
	A:        big.NewInt(0),
	B:        big.NewInt(3),
	NumLimbs: 4,
}

func bn254AffineFromBytes(x, y []byte) (AffinePoint, bool) {
	f := newField(bn254Curve)
	xi := new(big.Int).SetBytes(x)
	yi := new(big.Int).SetBytes(y)
	if xi.Sign() == 0 && yi.Sign() == 0 {
		return AffinePoint{IsInfinity: true}, true
	}
	if xi.Cmp(bn254P) >= 0 || yi.Cmp(bn254P) >= 0 {
		return AffinePoint{}, false
	}
	p := AffinePoint{X: f.toMont(xi), Y: f.toMont(yi)}
	if !f.IsOnCurve(p) {
		return AffinePoint{}, false
	}
	return p, true
}

func bn254AffineToBytes(p AffinePoint) []byte {
	out := make([]byte, 64)
	if p.IsInfinity {
		return out
	}
	f := newField(bn254Curve)
	xb := f.fromMont(p.X).Bytes()
	yb := f.fromMont(p.Y).Bytes()
	copy(out[32-len(xb):32], xb)
	copy(out[64-len(yb):64], yb)
	return out
}

// BN254Add implements the ECADD precompile: adds two points on the BN254
// G1 curve, given as 64-byte (x||y) affine encodings, returning the 64-byte
// encoding of the sum. The second bool return is false on a malformed or
// off-curve input.
func BN254Add(a, b []byte) ([]byte, bool) {
	p, ok := bn254AffineFromBytes(a[:32], a[32:64])
	if !ok {
		return nil, false
	}
	q, ok := bn254AffineFromBytes(b[:32], b[32:64])
	if !ok {
		return nil, false
	}
	f := newField(bn254Curve)
	return bn254AffineToBytes(f.AddAffine(p, q)), true
}

// BN254Mul implements the ECMUL precompile: multiplies a BN254 G1 point by
// a scalar, given as a 64-byte point encoding and a 32-byte big-endian
// scalar.
func BN254Mul(point []byte, scalar []byte) ([]byte, bool) {
	p, ok := bn254AffineFromBytes(point[:32], point[32:64])
	if !ok {
		return nil, false
	}
	f := newField(bn254Curve)
	k := new(big.Int).SetBytes(scalar)
	return bn254AffineToBytes(f.Mul(p, k)), true
}

// BN254Pairing implements the ECPAIRING precompile: checks whether the
// product of pairings e(G1_i, G2_i) over all input pairs equals 1 in the
// target group. pairs holds 192-byte chunks (64-byte G1 || 128-byte G2,
// with the G2 coordinates ordered imaginary-then-real per component, per
// EIP-197's wire format). An empty input is defined to be accepting. The
// Miller-loop/final-exponentiation machinery is delegated to a dedicated
// pairing-tower library rather than hand-rolled, since the G1 side
// (ECADD/ECMUL) is the part this module builds natively on the shared
// EVMMAX engine.
func BN254Pairing(pairs [][192]byte) (bool, bool) {
	if len(pairs) == 0 {
		return true, true
	}
	g1s := make([]bn254.G1Affine, 0, len(pairs))
	g2s := make([]bn254.G2Affine, 0, len(pairs))
	for _, chunk := range pairs {
		x := new(big.Int).SetBytes(chunk[0:32])
		y := new(big.Int).SetBytes(chunk[32:64])
		if x.Sign() == 0 && y.Sign() == 0 {
			continue // identity contributes nothing to the pairing product
		}
		if x.Cmp(bn254P) >= 0 || y.Cmp(bn254P) >= 0 {
			return false, false
		}
		var g1 bn254.G1Affine
		g1.X.SetBigInt(x)
		g1.Y.SetBigInt(y)
		if !g1.IsOnCurve() {
			return false, false
		}

		x2c1 := new(big.Int).SetBytes(chunk[64:96])
		x2c0 := new(big.Int).SetBytes(chunk[96:128])
		y2c1 := new(big.Int).SetBytes(chunk[128:160])
		y2c0 := new(big.Int).SetBytes(chunk[160:192])
		if x2c1.Cmp(bn254P) >= 0 || x2c0.Cmp(bn254P) >= 0 || y2c1.Cmp(bn254P) >= 0 || y2c0.Cmp(bn254P) >= 0 {
			return false, false
		}
		var g2 bn254.G2Affine
		g2.X.A1.SetBigInt(x2c1)
		g2.X.A0.SetBigInt(x2c0)
		g2.Y.A1.SetBigInt(y2c1)
		g2.Y.A0.SetBigInt(y2c0)
		if !g2.IsOnCurve() {
			return false, false
		}
		g1s = append(g1s, g1)
		g2s = append(g2s, g2)
	}
	if len(g1s) == 0 {
		return true, true
	}
	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil {
		return false, false
	}
	return ok, true
}
