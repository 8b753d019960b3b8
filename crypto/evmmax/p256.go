package evmmax

import "math/big"

var (
	secp256r1P, _  = new(big.Int).SetString("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", 16)
	secp256r1N, _  = new(big.Int).SetString("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551", 16)
	secp256r1A, _  = new(big.Int).SetString("ffffffff00000001000000000000000000000000fffffffffffffffffffffffc", 16)
	secp256r1B, _  = new(big.Int).SetString("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b", 16)
	secp256r1Gx, _ = new(big.Int).SetString("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296", 16)
	secp256r1Gy, _ = new(big.Int).SetString("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5", 16)
)

var secp256r1Curve = &Curve{
	FieldMod: secp256r1P,
	Order:    secp256r1N,
	A:        new(big.Int).Mod(secp256r1A, secp256r1P),
	B:        secp256r1B,
	NumLimbs: 4,
}

// P256Verify implements the P256VERIFY precompile (EIP-7951): verifies an
// ECDSA signature (r, s) over hash against the public key (qx, qy) on
// secp256r1, following the reference verify routine: validate the
// signature range and public-key validity, compute u1 = h*s^-1 mod n and
// u2 = r*s^-1 mod n, recover R = u1*G + u2*Q, and compare R.x mod n to r.
func P256Verify(hash [32]byte, r, s, qx, qy *big.Int) bool {
	n := secp256r1N
	if r.Sign() <= 0 || r.Cmp(n) >= 0 || s.Sign() <= 0 || s.Cmp(n) >= 0 {
		return false
	}
	if qx.Sign() < 0 || qx.Cmp(secp256r1P) >= 0 || qy.Sign() < 0 || qy.Cmp(secp256r1P) >= 0 {
		return false
	}

	f := newField(secp256r1Curve)
	q := AffinePoint{X: f.toMont(qx), Y: f.toMont(qy)}
	if q.IsInfinity || !f.IsOnCurve(q) {
		return false
	}

	arith := NewModArith(limbsFromBig(n, 4))
	sMont := arith.ToMont(limbsFromBig(s, 4))
	sInvMont := arith.Inv(sMont)
	sInv := limbsToBig(arith.FromMont(sInvMont))

	z := new(big.Int).SetBytes(hash[:])
	z.Mod(z, n)

	u1 := new(big.Int).Mul(z, sInv)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(r, sInv)
	u2.Mod(u2, n)

	g := AffinePoint{X: f.toMont(secp256r1Gx), Y: f.toMont(secp256r1Gy)}
	rPoint := f.MSM(u1, g, u2, q)
	if rPoint.IsInfinity {
		return false
	}

	x1 := f.fromMont(rPoint.X)
	x1.Mod(x1, n)
	return x1.Cmp(r) == 0
}
