package evmmax

import "math/big"

// ModExp computes base^exp mod mod for arbitrary-precision byte-encoded
// operands, dispatching on whether the modulus is odd, a power of two, or
// even-and-composite, matching the three-way split (odd / pow2 / CRT
// recombination via Garner's formula) the reference precompile uses.
func ModExp(base, exp, mod []byte) []byte {
	m := new(big.Int).SetBytes(mod)
	if m.Sign() == 0 {
		return make([]byte, len(mod))
	}
	b := new(big.Int).SetBytes(base)
	e := new(big.Int).SetBytes(exp)

	var result *big.Int
	switch {
	case m.Bit(0) == 1:
		result = modexpOdd(b, e, m)
	case isPowerOfTwo(m):
		k := m.BitLen() - 1
		result = modexpPow2(b, e, uint(k))
	default:
		result = modexpEven(b, e, m)
	}

	out := make([]byte, len(mod))
	rb := result.Bytes()
	copy(out[len(out)-len(rb):], rb)
	return out
}

func isPowerOfTwo(m *big.Int) bool {
	if m.Sign() <= 0 {
		return false
	}
	t := new(big.Int).Sub(m, big.NewInt(1))
	return new(big.Int).And(m, t).Sign() == 0
}

// modexpOdd computes base^exp mod m for odd m using a Montgomery-form
// square-and-multiply ladder, mirroring modexp_odd: convert the base to
// Montgomery form, square once per bit of exp starting from one, with a
// conditional multiply per set bit, then a single final reduction back to
// canonical form.
func modexpOdd(base, exp, m *big.Int) *big.Int {
	if exp.Sign() == 0 {
		return big.NewInt(1).Mod(big.NewInt(1), m)
	}
	numLimbs := (m.BitLen() + 63) / 64
	if numLimbs == 0 {
		numLimbs = 1
	}
	arith := NewModArith(limbsFromBig(m, numLimbs))
	baseMod := new(big.Int).Mod(base, m)
	baseMont := arith.ToMont(limbsFromBig(baseMod, numLimbs))

	accMont := arith.ToMont(limbsFromBig(big.NewInt(1), numLimbs))
	for i := exp.BitLen() - 1; i >= 0; i-- {
		accMont = arith.Mul(accMont, accMont)
		if exp.Bit(i) == 1 {
			accMont = arith.Mul(accMont, baseMont)
		}
	}
	return limbsToBig(arith.FromMont(accMont))
}

// modexpPow2 computes base^exp mod 2^k via plain square-and-multiply with a
// final bitmask, matching modexp_pow2 (no Montgomery form needed since
// reduction mod a power of two is a bitmask).
func modexpPow2(base, exp *big.Int, k uint) *big.Int {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), k), big.NewInt(1))
	if exp.Sign() == 0 {
		return new(big.Int).And(big.NewInt(1), mask)
	}
	acc := big.NewInt(1)
	b := new(big.Int).And(base, mask)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		acc = new(big.Int).And(new(big.Int).Mul(acc, acc), mask)
		if exp.Bit(i) == 1 {
			acc = new(big.Int).And(new(big.Int).Mul(acc, b), mask)
		}
	}
	return acc
}

// modinvPow2 computes the multiplicative inverse of the odd value x modulo
// 2^k via Newton-Raphson, doubling the number of correct bits per
// iteration starting from the word-level inverse, matching modinv_pow2.
func modinvPow2(x *big.Int, k uint) *big.Int {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), k), big.NewInt(1))
	xWord := x.Uint64()
	inv := new(big.Int).SetUint64(invMod2_64(xWord | 1))
	bits := uint(64)
	for bits < k {
		bits *= 2
		m := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
		t := new(big.Int).And(new(big.Int).Mul(x, inv), m)
		two := big.NewInt(2)
		inv = new(big.Int).And(new(big.Int).Mul(inv, new(big.Int).Sub(two, t)), m)
	}
	return new(big.Int).And(inv, mask)
}

// modexpEven computes base^exp mod m for even, composite m by splitting
// m = oddPart * 2^k, solving the odd and power-of-two sub-problems
// independently, and recombining them with Garner's formula (CRT for two
// coprime moduli), matching modexp_even.
func modexpEven(base, exp, m *big.Int) *big.Int {
	k := 0
	oddPart := new(big.Int).Set(m)
	for oddPart.Bit(0) == 0 {
		oddPart.Rsh(oddPart, 1)
		k++
	}
	x1 := modexpOdd(base, exp, oddPart)
	x2 := modexpPow2(base, exp, uint(k))

	modOddInv := modinvPow2(oddPart, uint(k))
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(k)), big.NewInt(1))

	diff := new(big.Int).Sub(x2, x1)
	diff.And(diff, mask)
	y := new(big.Int).Mul(diff, modOddInv)
	y.And(y, mask)

	result := new(big.Int).Add(x1, new(big.Int).Mul(y, oddPart))
	return result.Mod(result, m)
}
