package vm

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"golang.org/x/crypto/ripemd160"

	"github.com/oi2996814/evmone/core/types"
	"github.com/oi2996814/evmone/crypto/evmmax"
)

// PrecompiledContract is the interface every native (non-bytecode) contract
// implements. RequiredGas is charged before Run executes, exactly like a
// constantGas/dynamicGas pair for an opcode.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// Precompile addresses. P256Verify is RIP-7212 / EIP-7951's address; it is
// not yet assigned in a shipped fork; precompileRegistry gates it, like every
// other entry, by its own since field, set to Prague.
var (
	ecrecoverAddr    = types.BytesToAddress([]byte{1})
	sha256Addr       = types.BytesToAddress([]byte{2})
	ripemd160Addr    = types.BytesToAddress([]byte{3})
	identityAddr     = types.BytesToAddress([]byte{4})
	modexpAddr       = types.BytesToAddress([]byte{5})
	bn254AddAddr     = types.BytesToAddress([]byte{6})
	bn254MulAddr     = types.BytesToAddress([]byte{7})
	bn254PairingAddr = types.BytesToAddress([]byte{8})
	blake2fAddr      = types.BytesToAddress([]byte{9})
	p256VerifyAddr   = types.BytesToAddress([]byte{0x01, 0x00})
)

// precompileInfo pairs a contract with the revision it was introduced at,
// mirroring baseTable's since field in jump_table.go.
type precompileInfo struct {
	contract PrecompiledContract
	since    Revision
}

var precompileRegistry = map[types.Address]precompileInfo{
	ecrecoverAddr:    {&ecrecoverPrecompile{}, Frontier},
	sha256Addr:       {&sha256Precompile{}, Frontier},
	ripemd160Addr:    {&ripemd160Precompile{}, Frontier},
	identityAddr:     {&identityPrecompile{}, Frontier},
	modexpAddr:       {&modexpPrecompile{}, Byzantium},
	bn254AddAddr:     {&bn254AddPrecompile{}, Byzantium},
	bn254MulAddr:     {&bn254MulPrecompile{}, Byzantium},
	bn254PairingAddr: {&bn254PairingPrecompile{}, Byzantium},
	blake2fAddr:       {&blake2fPrecompile{}, Istanbul},
	p256VerifyAddr:   {&p256VerifyPrecompile{}, Prague},
}

// PrecompiledContracts returns the address-to-contract map active at rev.
func PrecompiledContracts(rev Revision) map[types.Address]PrecompiledContract {
	out := make(map[types.Address]PrecompiledContract)
	for addr, info := range precompileRegistry {
		if info.since <= rev {
			out[addr] = info.contract
		}
	}
	return out
}

// IsPrecompile reports whether addr names a precompile active at rev.
func IsPrecompile(addr types.Address, rev Revision) bool {
	info, ok := precompileRegistry[addr]
	return ok && info.since <= rev
}

// RunPrecompile charges gas for and executes the precompile at addr, active
// at rev. ok is false if addr is not a precompile at that revision.
func RunPrecompile(addr types.Address, rev Revision, input []byte, gas uint64) (output []byte, gasLeft uint64, err error, ok bool) {
	info, found := precompileRegistry[addr]
	if !found || info.since > rev {
		return nil, gas, nil, false
	}
	cost := info.contract.RequiredGas(input)
	if gas < cost {
		return nil, 0, ErrOutOfGas, true
	}
	out, err := info.contract.Run(input)
	return out, gas - cost, err, true
}

// --- ECRECOVER (0x01) ---

type ecrecoverPrecompile struct{}

const ecrecoverGas = 3000

func (c *ecrecoverPrecompile) RequiredGas(input []byte) uint64 { return ecrecoverGas }

func (c *ecrecoverPrecompile) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 128)

	var hash [32]byte
	copy(hash[:], input[0:32])
	v := new(big.Int).SetBytes(input[32:64])
	r := new(big.Int).SetBytes(input[64:96])
	s := new(big.Int).SetBytes(input[96:128])

	if v.BitLen() > 8 {
		return nil, nil
	}
	vByte := v.Uint64()
	if vByte != 27 && vByte != 28 {
		return nil, nil
	}

	addr := evmmax.Ecrecover(hash, uint(vByte-27), r, s)
	if addr == nil {
		return nil, nil
	}
	out := make([]byte, 32)
	copy(out[12:], addr)
	return out, nil
}

// --- SHA256 (0x02) ---

type sha256Precompile struct{}

func (c *sha256Precompile) RequiredGas(input []byte) uint64 {
	return 60 + 12*wordCount(len(input))
}

func (c *sha256Precompile) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// --- RIPEMD160 (0x03) ---

type ripemd160Precompile struct{}

func (c *ripemd160Precompile) RequiredGas(input []byte) uint64 {
	return 600 + 120*wordCount(len(input))
}

func (c *ripemd160Precompile) Run(input []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(input)
	digest := h.Sum(nil)
	out := make([]byte, 32)
	copy(out[12:], digest)
	return out, nil
}

// --- IDENTITY (0x04) ---

type identityPrecompile struct{}

func (c *identityPrecompile) RequiredGas(input []byte) uint64 {
	return 15 + 3*wordCount(len(input))
}

func (c *identityPrecompile) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

// --- MODEXP (0x05, EIP-198/EIP-2565) ---

type modexpPrecompile struct{}

func (c *modexpPrecompile) RequiredGas(input []byte) uint64 {
	input = rightPad(input, 96)
	baseLen := new(big.Int).SetBytes(input[0:32]).Uint64()
	expLen := new(big.Int).SetBytes(input[32:64]).Uint64()
	modLen := new(big.Int).SetBytes(input[64:96]).Uint64()

	adjExpLen := adjustedExpLen(expLen, baseLen, input[96:])

	maxLen := baseLen
	if modLen > maxLen {
		maxLen = modLen
	}
	words := (maxLen + 7) / 8
	multComplexity := words * words

	gas := multComplexity * max64(adjExpLen, 1) / 3
	if gas < 200 {
		gas = 200
	}
	return gas
}

func (c *modexpPrecompile) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 96)
	baseLen := new(big.Int).SetBytes(input[0:32])
	expLen := new(big.Int).SetBytes(input[32:64])
	modLen := new(big.Int).SetBytes(input[64:96])

	if baseLen.BitLen() > 32 || expLen.BitLen() > 32 || modLen.BitLen() > 32 {
		return nil, errors.New("modexp: length overflow")
	}
	bLen, eLen, mLen := baseLen.Uint64(), expLen.Uint64(), modLen.Uint64()

	data := input[96:]
	base := dataSlice(data, 0, bLen)
	exp := dataSlice(data, bLen, eLen)
	mod := dataSlice(data, bLen+eLen, mLen)

	out := evmmax.ModExp(base, exp, mod)
	if uint64(len(out)) < mLen {
		padded := make([]byte, mLen)
		copy(padded[mLen-uint64(len(out)):], out)
		return padded, nil
	}
	return out[:mLen], nil
}

// --- ECADD (0x06, EIP-196, BN254 G1 point addition) ---

type bn254AddPrecompile struct{}

const bn254AddGas = 150

func (c *bn254AddPrecompile) RequiredGas(input []byte) uint64 { return bn254AddGas }

func (c *bn254AddPrecompile) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 128)
	out, ok := evmmax.BN254Add(input[0:64], input[64:128])
	if !ok {
		return nil, errors.New("ecadd: invalid point")
	}
	return out, nil
}

// --- ECMUL (0x07, EIP-196, BN254 G1 scalar multiplication) ---

type bn254MulPrecompile struct{}

const bn254MulGas = 6000

func (c *bn254MulPrecompile) RequiredGas(input []byte) uint64 { return bn254MulGas }

func (c *bn254MulPrecompile) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 96)
	out, ok := evmmax.BN254Mul(input[0:64], input[64:96])
	if !ok {
		return nil, errors.New("ecmul: invalid point")
	}
	return out, nil
}

// --- ECPAIRING (0x08, EIP-197, BN254 pairing check) ---

type bn254PairingPrecompile struct{}

const (
	bn254PairingBaseGas = 45000
	bn254PairingPerGas  = 34000
)

func (c *bn254PairingPrecompile) RequiredGas(input []byte) uint64 {
	k := uint64(len(input)) / 192
	return bn254PairingBaseGas + bn254PairingPerGas*k
}

func (c *bn254PairingPrecompile) Run(input []byte) ([]byte, error) {
	if len(input)%192 != 0 {
		return nil, errors.New("ecpairing: invalid input length")
	}
	pairs := make([][192]byte, len(input)/192)
	for i := range pairs {
		copy(pairs[i][:], input[i*192:(i+1)*192])
	}
	success, ok := evmmax.BN254Pairing(pairs)
	if !ok {
		return nil, errors.New("ecpairing: invalid point")
	}
	out := make([]byte, 32)
	if success {
		out[31] = 1
	}
	return out, nil
}

// --- BLAKE2F (0x09, EIP-152) ---

type blake2fPrecompile struct{}

func (c *blake2fPrecompile) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return 0
	}
	return uint64(be32(input[:4]))
}

func (c *blake2fPrecompile) Run(input []byte) ([]byte, error) {
	return runBlake2F(input)
}

// --- P256VERIFY (0x100, RIP-7212 / EIP-7951, secp256r1 signature check) ---

type p256VerifyPrecompile struct{}

const p256VerifyGas = 3450

func (c *p256VerifyPrecompile) RequiredGas(input []byte) uint64 { return p256VerifyGas }

func (c *p256VerifyPrecompile) Run(input []byte) ([]byte, error) {
	if len(input) != 160 {
		return nil, errors.New("p256verify: invalid input length")
	}
	var hash [32]byte
	copy(hash[:], input[0:32])
	r := new(big.Int).SetBytes(input[32:64])
	s := new(big.Int).SetBytes(input[64:96])
	qx := new(big.Int).SetBytes(input[96:128])
	qy := new(big.Int).SetBytes(input[128:160])

	out := make([]byte, 32)
	if evmmax.P256Verify(hash, r, s, qx, qy) {
		out[31] = 1
	}
	return out, nil
}

// --- shared helpers ---

func wordCount(size int) uint64 {
	if size == 0 {
		return 0
	}
	return uint64((size + 31) / 32)
}

func rightPad(data []byte, minLen int) []byte {
	if len(data) >= minLen {
		return data
	}
	padded := make([]byte, minLen)
	copy(padded, data)
	return padded
}

func dataSlice(data []byte, offset, length uint64) []byte {
	if length == 0 {
		return nil
	}
	out := make([]byte, length)
	if offset >= uint64(len(data)) {
		return out
	}
	end := offset + length
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	copy(out, data[offset:end])
	return out
}

func adjustedExpLen(expLen, baseLen uint64, data []byte) uint64 {
	if expLen <= 32 {
		exp := new(big.Int).SetBytes(dataSlice(data, baseLen, expLen))
		if exp.Sign() == 0 {
			return 0
		}
		return uint64(exp.BitLen() - 1)
	}
	first := new(big.Int).SetBytes(dataSlice(data, baseLen, 32))
	var adj uint64
	if first.Sign() > 0 {
		adj = uint64(first.BitLen() - 1)
	}
	return adj + 8*(expLen-32)
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
