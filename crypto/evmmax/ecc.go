package evmmax

import "math/big"

// Curve describes a short Weierstrass curve y^2 = x^3 + A*x + B over a prime
// field of the given modulus, plus its order (the size of the prime-order
// subgroup used for scalar multiplication reduction).
type Curve struct {
	FieldMod *big.Int
	Order    *big.Int
	A        *big.Int
	B        *big.Int
	NumLimbs int
}

// field wraps a ModArith instance together with the curve it was built for,
// and converts between big.Int and Montgomery-limb representations.
type field struct {
	arith *ModArith
	curve *Curve
}

func newField(c *Curve) *field {
	return &field{arith: NewModArith(limbsFromBig(c.FieldMod, c.NumLimbs)), curve: c}
}

func limbsFromBig(v *big.Int, numLimbs int) []uint64 {
	b := v.Bytes()
	return limbsFromBE(b, numLimbs)
}

func limbsToBig(limbs []uint64) *big.Int {
	return new(big.Int).SetBytes(limbsToBE(limbs))
}

func (f *field) toMont(v *big.Int) []uint64 { return f.arith.ToMont(limbsFromBig(v, f.arith.numLimbs)) }
func (f *field) fromMont(l []uint64) *big.Int { return limbsToBig(f.arith.FromMont(l)) }

// AffinePoint is a curve point in affine coordinates, both fields in
// Montgomery form; IsInfinity marks the point at infinity (X, Y ignored).
type AffinePoint struct {
	X, Y       []uint64
	IsInfinity bool
}

// JacobianPoint is a curve point in Jacobian projective coordinates
// (x = X/Z^2, y = Y/Z^3), all three fields in Montgomery form.
type JacobianPoint struct {
	X, Y, Z []uint64
}

func (f *field) mul(a, b []uint64) []uint64 { return f.arith.Mul(a, b) }
func (f *field) sqr(a []uint64) []uint64    { return f.arith.Mul(a, a) }
func (f *field) add(a, b []uint64) []uint64 { return f.arith.Add(a, b) }
func (f *field) sub(a, b []uint64) []uint64 { return f.arith.Sub(a, b) }
func (f *field) inv(a []uint64) []uint64    { return f.arith.Inv(a) }

func (f *field) isZero(a []uint64) bool { return isZeroLimbs(a) }

// jacInfinity returns the Jacobian representation of the point at infinity.
func (f *field) jacInfinity() JacobianPoint {
	zero := f.arith.zero()
	one := f.toMont(big.NewInt(1))
	return JacobianPoint{X: one, Y: one, Z: zero}
}

// ToJacobian lifts an affine point to Jacobian coordinates.
func (f *field) ToJacobian(p AffinePoint) JacobianPoint {
	if p.IsInfinity {
		return f.jacInfinity()
	}
	one := f.toMont(big.NewInt(1))
	return JacobianPoint{X: p.X, Y: p.Y, Z: one}
}

// ToAffine projects a Jacobian point back to affine coordinates, computing
// 1/Z once and deriving x = X/Z^2, y = Y/Z^3. A Z of zero denotes infinity
// and propagates naturally (Inv of zero returns zero, matching evmone).
func (f *field) ToAffine(p JacobianPoint) AffinePoint {
	if f.isZero(p.Z) {
		return AffinePoint{IsInfinity: true}
	}
	zInv := f.inv(p.Z)
	zInv2 := f.sqr(zInv)
	zInv3 := f.mul(zInv2, zInv)
	return AffinePoint{X: f.mul(p.X, zInv2), Y: f.mul(p.Y, zInv3)}
}

// dbl doubles a Jacobian point. Only A == 0 (secp256k1, BN254) and
// A == p-3 (secp256r1) are supported, matching the two dedicated formulas
// evmone implements (dbl-2009-l and dbl-2001-b respectively).
func (f *field) dbl(p JacobianPoint) JacobianPoint {
	if f.isZero(p.Z) {
		return p
	}
	aIsZero := f.curve.A.Sign() == 0
	aIsMinus3 := new(big.Int).Mod(new(big.Int).Add(f.curve.A, big.NewInt(3)), f.curve.FieldMod).Sign() == 0

	switch {
	case aIsZero:
		return f.dbl2009L(p)
	case aIsMinus3:
		return f.dbl2001B(p)
	default:
		panic("evmmax: unsupported curve parameter A for point doubling")
	}
}

// dbl2009L implements dbl-2009-l (for a = 0).
func (f *field) dbl2009L(p JacobianPoint) JacobianPoint {
	X1, Y1, Z1 := p.X, p.Y, p.Z
	A := f.sqr(X1)
	B := f.sqr(Y1)
	C := f.sqr(B)
	D := f.sub(f.sqr(f.add(X1, B)), f.add(A, C))
	D = f.add(D, D)
	E := f.add(A, A)
	E = f.add(E, A)
	F := f.sqr(E)
	X3 := f.sub(F, f.add(D, D))
	eightC := f.add(f.add(C, C), f.add(C, C))
	eightC = f.add(eightC, eightC)
	Y3 := f.sub(f.mul(E, f.sub(D, X3)), eightC)
	YZ := f.mul(Y1, Z1)
	Z3 := f.add(YZ, YZ)
	return JacobianPoint{X: X3, Y: Y3, Z: Z3}
}

// dbl2001B implements dbl-2001-b (for a = p-3).
func (f *field) dbl2001B(p JacobianPoint) JacobianPoint {
	X1, Y1, Z1 := p.X, p.Y, p.Z
	delta := f.sqr(Z1)
	gamma := f.sqr(Y1)
	beta := f.mul(X1, gamma)
	t0 := f.sub(X1, delta)
	t1 := f.add(X1, delta)
	t2 := f.mul(t0, t1)
	alpha := f.add(f.add(t2, t2), t2)
	eightBeta := f.mul8(beta)
	X3 := f.sub(f.sqr(alpha), eightBeta)
	fourBeta := f.add(f.add(beta, beta), f.add(beta, beta))
	t3 := f.sub(fourBeta, X3)
	Y3 := f.sub(f.mul(alpha, t3), f.mul8(f.sqr(gamma)))
	t4 := f.add(Y1, Z1)
	Z3 := f.sub(f.sqr(t4), f.add(gamma, delta))
	return JacobianPoint{X: X3, Y: Y3, Z: Z3}
}

func (f *field) mul8(a []uint64) []uint64 {
	d := f.add(a, a)
	d = f.add(d, d)
	return f.add(d, d)
}

// Add adds two Jacobian points using add-1998-cmo-2, delegating to dbl when
// the inputs coincide (h == 0 && r == 0 in evmone's naming).
func (f *field) Add(p, q JacobianPoint) JacobianPoint {
	if f.isZero(p.Z) {
		return q
	}
	if f.isZero(q.Z) {
		return p
	}
	Z1Z1 := f.sqr(p.Z)
	Z2Z2 := f.sqr(q.Z)
	U1 := f.mul(p.X, Z2Z2)
	U2 := f.mul(q.X, Z1Z1)
	Z1Cubed := f.mul(p.Z, Z1Z1)
	Z2Cubed := f.mul(q.Z, Z2Z2)
	S1 := f.mul(p.Y, Z2Cubed)
	S2 := f.mul(q.Y, Z1Cubed)
	H := f.sub(U2, U1)
	r := f.sub(S2, S1)
	if f.isZero(H) && f.isZero(r) {
		return f.dbl(p)
	}
	if f.isZero(H) {
		return f.jacInfinity()
	}
	I := f.sqr(f.add(H, H))
	J := f.mul(H, I)
	V := f.mul(U1, I)
	rr := f.add(r, r)
	X3 := f.sub(f.sub(f.sqr(rr), J), f.add(V, V))
	Y3 := f.sub(f.mul(rr, f.sub(V, X3)), f.mul(f.add(S1, S1), J))
	Z3 := f.sub(f.sub(f.sqr(f.add(p.Z, q.Z)), Z1Z1), Z2Z2)
	Z3 = f.mul(Z3, H)
	return JacobianPoint{X: X3, Y: Y3, Z: Z3}
}

// AddMixed adds a Jacobian point and an affine point (madd), delegating to
// dbl on coincidence just like Add.
func (f *field) AddMixed(p JacobianPoint, q AffinePoint) JacobianPoint {
	if q.IsInfinity {
		return p
	}
	if f.isZero(p.Z) {
		return f.ToJacobian(q)
	}
	Z1Z1 := f.sqr(p.Z)
	U2 := f.mul(q.X, Z1Z1)
	S2 := f.mul(q.Y, f.mul(p.Z, Z1Z1))
	H := f.sub(U2, p.X)
	r := f.sub(S2, p.Y)
	if f.isZero(H) && f.isZero(r) {
		return f.dbl(p)
	}
	if f.isZero(H) {
		return f.jacInfinity()
	}
	HH := f.sqr(H)
	I := f.add(HH, HH)
	I = f.add(I, I)
	J := f.mul(H, I)
	V := f.mul(p.X, I)
	rr := f.add(r, r)
	X3 := f.sub(f.sub(f.sqr(rr), J), f.add(V, V))
	YJ := f.mul(p.Y, J)
	Y3 := f.sub(f.mul(rr, f.sub(V, X3)), f.add(YJ, YJ))
	Z3 := f.sub(f.sqr(f.add(p.Z, H)), f.add(Z1Z1, HH))
	return JacobianPoint{X: X3, Y: Y3, Z: Z3}
}

// Mul performs scalar multiplication of an affine point by a scalar reduced
// modulo the curve order, via left-to-right double-and-add with mixed
// addition (matching ecc::mul in the reference implementation).
func (f *field) Mul(p AffinePoint, k *big.Int) AffinePoint {
	kk := new(big.Int).Mod(k, f.curve.Order)
	if kk.Sign() == 0 || p.IsInfinity {
		return AffinePoint{IsInfinity: true}
	}
	acc := f.jacInfinity()
	for i := kk.BitLen() - 1; i >= 0; i-- {
		acc = f.dbl(acc)
		if kk.Bit(i) == 1 {
			acc = f.AddMixed(acc, p)
		}
	}
	return f.ToAffine(acc)
}

// MSM computes u*P + v*Q via the Straus-Shamir trick with a 4-entry
// precomputed table {infinity, P, Q, P+Q} indexed by the pair of bits of
// u and v at each position.
func (f *field) MSM(u *big.Int, p AffinePoint, v *big.Int, q AffinePoint) AffinePoint {
	uu := new(big.Int).Mod(u, f.curve.Order)
	vv := new(big.Int).Mod(v, f.curve.Order)
	h := f.ToAffine(f.AddMixed(f.ToJacobian(p), q))
	table := [4]*AffinePoint{nil, &p, &q, &h}
	bitLen := uu.BitLen()
	if vv.BitLen() > bitLen {
		bitLen = vv.BitLen()
	}
	if bitLen == 0 {
		return AffinePoint{IsInfinity: true}
	}
	acc := f.jacInfinity()
	for i := bitLen - 1; i >= 0; i-- {
		acc = f.dbl(acc)
		idx := uu.Bit(i) + 2*vv.Bit(i)
		if idx != 0 {
			acc = f.AddMixed(acc, *table[idx])
		}
	}
	return f.ToAffine(acc)
}

// AddAffine adds two affine points. The infinity, equal-point and
// opposite-point cases are handled directly; otherwise p is lifted to
// Jacobian coordinates and added to q with mixed addition.
func (f *field) AddAffine(p, q AffinePoint) AffinePoint {
	if p.IsInfinity {
		return q
	}
	if q.IsInfinity {
		return p
	}
	if f.arith.equal(p.X, q.X) {
		if f.arith.equal(p.Y, q.Y) {
			return f.ToAffine(f.dbl(f.ToJacobian(p)))
		}
		return AffinePoint{IsInfinity: true}
	}
	return f.ToAffine(f.AddMixed(f.ToJacobian(p), q))
}

func (m *ModArith) equal(a, b []uint64) bool {
	return cmpLimbs(a, b) == 0
}

// IsOnCurve reports whether the affine point satisfies y^2 = x^3 + A*x + B.
func (f *field) IsOnCurve(p AffinePoint) bool {
	if p.IsInfinity {
		return true
	}
	lhs := f.sqr(p.Y)
	x3 := f.mul(f.sqr(p.X), p.X)
	aMont := f.toMont(new(big.Int).Mod(f.curve.A, f.curve.FieldMod))
	bMont := f.toMont(new(big.Int).Mod(f.curve.B, f.curve.FieldMod))
	rhs := f.add(f.add(x3, f.mul(aMont, p.X)), bMont)
	return f.arith.equal(lhs, rhs)
}
