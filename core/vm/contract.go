package vm

import (
	"github.com/holiman/uint256"

	"github.com/oi2996814/evmone/core/types"
)

// Contract is a single call frame's view of the code it is executing: the
// immutable code/input/value for this invocation, the mutable gas counter,
// and the lazily-built jump-destination analysis the code needs for every
// JUMP/JUMPI it executes.
type Contract struct {
	CallerAddress types.Address
	Address       types.Address
	Code          []byte
	CodeHash      types.Hash
	Input         []byte
	Gas           uint64
	Value         *uint256.Int
	IsStatic      bool

	analysis *CodeAnalysis // built on first jump, cached for the life of the frame
}

// NewContract creates a new contract for execution.
func NewContract(caller, addr types.Address, value *uint256.Int, gas uint64) *Contract {
	return &Contract{
		CallerAddress: caller,
		Address:       addr,
		Value:         value,
		Gas:           gas,
	}
}

// GetOp returns the opcode at position n in the contract code, or STOP past
// the end of the code (matching the EVM's implicit STOP at the code's end).
func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}

// UseGas attempts to consume the given gas, returning false if insufficient.
func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// RefundGas credits gas back to the frame, for the CALL-family stipend and
// unused gas returned by a nested call.
func (c *Contract) RefundGas(gas uint64) {
	c.Gas += gas
}

// SetCallCode sets the code and code hash for a CALL-type execution.
func (c *Contract) SetCallCode(addr *types.Address, hash types.Hash, code []byte) {
	c.Code = code
	c.CodeHash = hash
	if addr != nil {
		c.Address = *addr
	}
	c.analysis = nil
}

// ValidJumpdest reports whether dest is a valid JUMPDEST position in the
// code: in bounds, landing on a JUMPDEST opcode, and not inside PUSH data.
func (c *Contract) ValidJumpdest(dest *uint256.Int) bool {
	if !dest.IsUint64() {
		return false
	}
	udest := dest.Uint64()
	if c.analysis == nil {
		c.analysis = AnalyzeCode(c.Code)
	}
	return c.analysis.IsJumpDest(udest)
}
