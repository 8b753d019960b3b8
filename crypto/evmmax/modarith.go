// Package evmmax implements the fixed-width modular arithmetic engine
// (EVMMAX) that underlies the elliptic-curve and modular-exponentiation
// precompiles: Montgomery multiplication, modular inversion, and the
// curve point arithmetic built on top of them.
package evmmax

import "math/bits"

// ModArith performs Montgomery-form modular arithmetic over a fixed odd
// modulus, represented as a little-endian slice of 64-bit limbs. It mirrors
// the single-modulus engine an interpreter would instantiate once per
// precompile call rather than re-deriving Montgomery parameters on every
// multiplication.
type ModArith struct {
	mod      []uint64 // little-endian limbs of the modulus
	numLimbs int
	rSquared []uint64 // R^2 mod m, R = 2^(64*numLimbs)
	modInv   uint64   // -mod^-1 mod 2^64, used by the CIOS reduction step
}

// invMod2_64 returns the multiplicative inverse of the odd word a modulo 2^64
// via Newton-Raphson (x_{n+1} = x_n * (2 - a*x_n)), doubling the number of
// correct bits each iteration starting from a 3-bit inverse.
func invMod2_64(a uint64) uint64 {
	if a&1 == 0 {
		panic("evmmax: modulus must be odd")
	}
	x := a // correct mod 2^3 for any odd a: a*a == 1 mod 8
	for i := 0; i < 6; i++ {
		x = x * (2 - a*x)
	}
	return x
}

// NewModArith builds a Montgomery engine for the given odd modulus. mod must
// be little-endian limbs with no trailing (high-order) zero limbs beyond what
// numLimbs implies, i.e. mod[len(mod)-1] may be zero only if numLimbs==len(mod).
func NewModArith(mod []uint64) *ModArith {
	if len(mod) == 0 || mod[0]&1 == 0 {
		panic("evmmax: modulus must be odd and non-empty")
	}
	m := &ModArith{
		mod:      append([]uint64(nil), mod...),
		numLimbs: len(mod),
	}
	m.modInv = -invMod2_64(mod[0])
	m.rSquared = m.computeRSquared()
	return m
}

// computeRSquared computes R^2 mod m where R = 2^(64*numLimbs), by repeated
// doubling-and-reduce starting from 1 (i.e. left-shifting 1 by 2*64*numLimbs
// bits modulo m, one bit at a time, which is simple and avoids implementing a
// separate division routine).
func (m *ModArith) computeRSquared() []uint64 {
	acc := make([]uint64, m.numLimbs)
	acc[0] = 1
	for i := 0; i < 2*64*m.numLimbs; i++ {
		acc = m.addLimbs(acc, acc)
	}
	return acc
}

func (m *ModArith) zero() []uint64 { return make([]uint64, m.numLimbs) }

func (m *ModArith) clone(a []uint64) []uint64 {
	out := make([]uint64, m.numLimbs)
	copy(out, a)
	return out
}

// cmpLimbs returns -1, 0, 1 comparing a and b as unsigned numLimbs-limb integers.
func cmpLimbs(a, b []uint64) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func subLimbs(a, b []uint64) ([]uint64, uint64) {
	out := make([]uint64, len(a))
	var borrow uint64
	for i := range a {
		d, bo := bits.Sub64(a[i], b[i], borrow)
		out[i] = d
		borrow = bo
	}
	return out, borrow
}

func (m *ModArith) addLimbs(a, b []uint64) []uint64 {
	out := make([]uint64, m.numLimbs)
	var carry uint64
	for i := 0; i < m.numLimbs; i++ {
		s, c := bits.Add64(a[i], b[i], carry)
		out[i] = s
		carry = c
	}
	if carry != 0 || cmpLimbs(out, m.mod) >= 0 {
		out, _ = subLimbs(out, m.mod)
	}
	return out
}

// Add returns (a + b) mod m, operands and result in Montgomery form.
func (m *ModArith) Add(a, b []uint64) []uint64 { return m.addLimbs(a, b) }

// Sub returns (a - b) mod m, operands and result in Montgomery form.
func (m *ModArith) Sub(a, b []uint64) []uint64 {
	d, borrow := subLimbs(a, b)
	if borrow != 0 {
		d, _ = m.addModToLimbs(d)
	}
	return d
}

func (m *ModArith) addModToLimbs(a []uint64) ([]uint64, uint64) {
	out := make([]uint64, m.numLimbs)
	var carry uint64
	for i := 0; i < m.numLimbs; i++ {
		s, c := bits.Add64(a[i], m.mod[i], carry)
		out[i] = s
		carry = c
	}
	return out, carry
}

// mulAMM computes the Almost Montgomery Multiplication of a and b: a result
// congruent to a*b*R^-1 mod m but only guaranteed to lie in [0, 2m), matching
// the evmone mul_amm helper used by both the curve arithmetic and modexp.
func (m *ModArith) mulAMM(a, b []uint64) []uint64 {
	n := m.numLimbs
	t := make([]uint64, n+2)
	for i := 0; i < n; i++ {
		// t += a[i] * b
		var carry uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(a[i], b[j])
			lo, c1 := bits.Add64(lo, t[j], 0)
			lo, c2 := bits.Add64(lo, carry, 0)
			t[j] = lo
			carry = hi + c1 + c2
		}
		t[n], _ = bits.Add64(t[n], carry, 0)

		// reduce: k = t[0]*modInv mod 2^64; t += k*mod; shift right one limb
		k := t[0] * m.modInv
		var carry2 uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(k, m.mod[j])
			lo, c1 := bits.Add64(lo, t[j], 0)
			lo, c2 := bits.Add64(lo, carry2, 0)
			t[j] = lo
			carry2 = hi + c1 + c2
		}
		sum, c := bits.Add64(t[n], carry2, 0)
		t[n] = sum
		t[n+1] += c

		copy(t[0:n+1], t[1:n+2])
		t[n+1] = 0
	}
	return t[:n]
}

// Mul returns (a * b * R^-1) mod m -- the Montgomery product -- for a, b in
// Montgomery form, via Almost Montgomery Multiplication followed by a single
// conditional subtraction into the canonical [0, m) range.
func (m *ModArith) Mul(a, b []uint64) []uint64 {
	r := m.mulAMM(a, b)
	if cmpLimbs(r, m.mod) >= 0 {
		r, _ = subLimbs(r, m.mod)
	}
	return r
}

// ToMont converts a value from canonical form to Montgomery form: a * R mod m.
func (m *ModArith) ToMont(a []uint64) []uint64 {
	padded := make([]uint64, m.numLimbs)
	copy(padded, a)
	return m.Mul(padded, m.rSquared)
}

// FromMont converts a Montgomery-form value back to canonical form.
func (m *ModArith) FromMont(a []uint64) []uint64 {
	one := make([]uint64, m.numLimbs)
	one[0] = 1
	return m.Mul(a, one)
}

// Inv computes the Montgomery-form modular inverse of a (itself Montgomery
// form) using the binary extended Euclidean algorithm, seeding the Bezout
// coefficient with R^2 so the result comes out already in Montgomery form
// (the same trick evmone's ModArith::inv uses to avoid a separate
// to-Montgomery pass).
func (m *ModArith) Inv(a []uint64) []uint64 {
	n := m.numLimbs
	u := m.clone(a)
	v := m.clone(m.mod)
	x1 := m.clone(m.rSquared)
	x2 := m.zero()

	isOne := func(x []uint64) bool {
		if x[0] != 1 {
			return false
		}
		for i := 1; i < n; i++ {
			if x[i] != 0 {
				return false
			}
		}
		return true
	}
	isZero := func(x []uint64) bool {
		for i := 0; i < n; i++ {
			if x[i] != 0 {
				return false
			}
		}
		return true
	}
	isEven := func(x []uint64) bool { return x[0]&1 == 0 }
	halve := func(x []uint64) []uint64 {
		out := make([]uint64, n)
		var carry uint64
		for i := n - 1; i >= 0; i-- {
			out[i] = (x[i] >> 1) | (carry << 63)
			carry = x[i] & 1
		}
		return out
	}
	addMod := func(x, y []uint64) []uint64 {
		out := make([]uint64, n)
		var carry uint64
		for i := 0; i < n; i++ {
			s, c := bits.Add64(x[i], y[i], carry)
			out[i] = s
			carry = c
		}
		if carry != 0 || cmpLimbs(out, m.mod) >= 0 {
			out, _ = subLimbs(out, m.mod)
		}
		return out
	}
	halveModAware := func(x []uint64) []uint64 {
		if isEven(x) {
			return halve(x)
		}
		s, carry := m.addModToLimbs(x)
		out := make([]uint64, n)
		var c uint64
		for i := n - 1; i >= 0; i-- {
			out[i] = (s[i] >> 1) | (c << 63)
			c = s[i] & 1
		}
		if carry != 0 {
			out[n-1] |= 1 << 63
		}
		return out
	}

	for !isOne(u) && !isZero(u) {
		for isEven(u) {
			u = halve(u)
			x1 = halveModAware(x1)
		}
		for isEven(v) {
			v = halve(v)
			x2 = halveModAware(x2)
		}
		if cmpLimbs(u, v) >= 0 {
			u, _ = subLimbs(u, v)
			x1 = addMod(x1, negMod(x2, m.mod))
		} else {
			v, _ = subLimbs(v, u)
			x2 = addMod(x2, negMod(x1, m.mod))
		}
	}
	if isOne(u) {
		return x1
	}
	if isOne(v) {
		return x2
	}
	return m.zero()
}

func negMod(x, mod []uint64) []uint64 {
	if isZeroLimbs(x) {
		return make([]uint64, len(x))
	}
	out, _ := subLimbs(mod, x)
	return out
}

func isZeroLimbs(x []uint64) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}
