package evmmax

import "math/big"

var (
	secp256k1P, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	secp256k1N, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	secp256k1Gx, _ = new(big.Int).SetString("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", 16)
	secp256k1Gy, _ = new(big.Int).SetString("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8", 16)
)

var secp256k1Curve = &Curve{
	FieldMod: secp256k1P,
	Order:    secp256k1N,
	A:        big.NewInt(0),
	B:        big.NewInt(7),
	NumLimbs: 4,
}

// fieldSqrt computes a square root of a modulo secp256k1P via a^((p+1)/4),
// valid because p = secp256k1P satisfies p mod 4 == 3. Returns (root, true)
// when a is a quadratic residue, (nil, false) otherwise.
func fieldSqrt(a *big.Int) (*big.Int, bool) {
	p := secp256k1P
	exp := new(big.Int).Rsh(new(big.Int).Add(p, big.NewInt(1)), 2)
	root := new(big.Int).Exp(a, exp, p)
	check := new(big.Int).Exp(root, big.NewInt(2), p)
	if check.Cmp(new(big.Int).Mod(a, p)) != 0 {
		return nil, false
	}
	return root, true
}

// calculateY recovers a y-coordinate for x on secp256k1 with the given
// parity bit (0 for even, 1 for odd), matching the reference
// calculate_y helper used by ecrecover.
func calculateY(x *big.Int, yBit uint) (*big.Int, bool) {
	p := secp256k1P
	x3 := new(big.Int).Exp(x, big.NewInt(3), p)
	rhs := new(big.Int).Add(x3, big.NewInt(7))
	rhs.Mod(rhs, p)
	y, ok := fieldSqrt(rhs)
	if !ok {
		return nil, false
	}
	if y.Bit(0) != yBit {
		y.Sub(p, y)
	}
	return y, true
}

// Ecrecover implements the ECRECOVER precompile: recovers the 20-byte
// Ethereum address of the signer of hash given the signature (r, s, v),
// with v in {0, 1} identifying the recovery bit. Returns nil if the
// signature is invalid or the address cannot be recovered.
func Ecrecover(hash [32]byte, v uint, r, s *big.Int) []byte {
	n := secp256k1N
	if r.Sign() <= 0 || r.Cmp(n) >= 0 || s.Sign() <= 0 || s.Cmp(n) >= 0 || v > 1 {
		return nil
	}
	y, ok := calculateY(r, v)
	if !ok {
		return nil
	}

	arith := NewModArith(limbsFromBig(n, 4))
	h := new(big.Int).SetBytes(hash[:])
	h.Mod(h, n)

	rMont := arith.ToMont(limbsFromBig(r, 4))
	rInvMont := arith.Inv(rMont)
	rInv := limbsToBig(arith.FromMont(rInvMont))

	u1 := new(big.Int).Mul(new(big.Int).Sub(n, h), rInv)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(s, rInv)
	u2.Mod(u2, n)

	f := newField(secp256k1Curve)
	g := AffinePoint{X: f.toMont(secp256k1Gx), Y: f.toMont(secp256k1Gy)}
	pt := AffinePoint{X: f.toMont(r), Y: f.toMont(y)}

	q := f.MSM(u1, g, u2, pt)
	if q.IsInfinity {
		return nil
	}
	qx := f.fromMont(q.X)
	qy := f.fromMont(q.Y)

	pub := make([]byte, 64)
	xb := qx.Bytes()
	yb := qy.Bytes()
	copy(pub[32-len(xb):32], xb)
	copy(pub[64-len(yb):64], yb)

	addrHash := Keccak256(pub)
	return addrHash[12:]
}

// ValidateSignatureValues checks r, s for the ECDSA validity range used by
// both ECRECOVER and transaction signature validation; homestead enforces
// the low-S rule introduced to remove signature malleability.
func ValidateSignatureValues(v byte, r, s *big.Int, homestead bool) bool {
	if r == nil || s == nil || v > 1 {
		return false
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return false
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return false
	}
	if homestead {
		halfN := new(big.Int).Rsh(secp256k1N, 1)
		if s.Cmp(halfN) > 0 {
			return false
		}
	}
	return true
}
