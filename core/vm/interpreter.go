package vm

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/oi2996814/evmone/core/types"
)

// Interpreter runs a single call frame's bytecode against a Host. It holds
// no state of its own beyond what one Run call needs: the jump table for
// the configured revision, the call depth and static-call flag inherited
// from the frame that invoked it, and the return data left behind by the
// last nested call.
type Interpreter struct {
	Host      Host
	Revision  Revision
	jumpTable *JumpTable
	Tracer    Tracer

	depth      int
	readOnly   bool
	returnData []byte
}

// NewInterpreter returns an Interpreter configured for the given revision.
func NewInterpreter(host Host, rev Revision) *Interpreter {
	jt := BuildJumpTable(rev)
	return &Interpreter{
		Host:      host,
		Revision:  rev,
		jumpTable: &jt,
	}
}

// Depth returns the current call depth (0 for the outermost frame).
func (in *Interpreter) Depth() int { return in.depth }

// ReadOnly reports whether the current frame is executing under a
// STATICCALL restriction.
func (in *Interpreter) ReadOnly() bool { return in.readOnly }

// ReturnData returns the output of the most recently completed nested call,
// as read by RETURNDATACOPY/RETURNDATASIZE.
func (in *Interpreter) ReturnData() []byte { return in.returnData }

// Run executes contract's code against input, starting at pc 0, returning
// either the RETURN/STOP output or a halting error. ErrExecutionReverted is
// returned alongside the REVERT reason data, all other errors alongside nil
// output (the caller is expected to consume all remaining gas on any
// non-revert error, per haltingError).
func (in *Interpreter) Run(contract *Contract, input []byte, static bool) ([]byte, error) {
	contract.Input = input

	prevReadOnly := in.readOnly
	if static {
		in.readOnly = true
	}
	defer func() { in.readOnly = prevReadOnly }()

	stack := NewStack()
	defer ReturnStack(stack)
	mem := NewMemory()
	defer ReturnMemory(mem)

	var pc uint64
	for {
		op := contract.GetOp(pc)
		opInfo := in.jumpTable[op]
		if opInfo == nil || opInfo.execute == nil {
			return nil, ErrInvalidOpcode
		}

		sLen := stack.Len()
		if sLen < opInfo.minStack {
			return nil, ErrStackUnderflow
		}
		if sLen > opInfo.maxStack {
			return nil, ErrStackOverflow
		}

		if opInfo.writes && in.readOnly {
			return nil, ErrWriteProtection
		}

		if opInfo.constantGas > 0 && !contract.UseGas(opInfo.constantGas) {
			return nil, ErrOutOfGas
		}

		var memSize uint64
		if opInfo.memorySize != nil {
			size, overflow := opInfo.memorySize(stack)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			memSize = toWordSize(size) * 32
			if memSize > uint64(mem.Len()) {
				cost := MemoryExpansionGas(uint64(mem.Len()), memSize)
				if !contract.UseGas(cost) {
					return nil, ErrOutOfGas
				}
				mem.Resize(memSize)
			}
		}

		if opInfo.dynamicGas != nil {
			cost, err := opInfo.dynamicGas(in, contract, stack, mem, memSize)
			if err != nil {
				return nil, err
			}
			if !contract.UseGas(cost) {
				return nil, ErrOutOfGas
			}
		}

		if in.Tracer != nil {
			in.Tracer.CaptureState(pc, op, contract.Gas, opInfo.constantGas, stack, mem, in.depth, nil)
		}

		ret, err := opInfo.execute(&pc, in, contract, mem, stack)
		if err != nil {
			if errors.Is(err, ErrExecutionReverted) {
				return ret, err
			}
			return nil, err
		}

		if opInfo.halts {
			return ret, nil
		}
		if !opInfo.jumps {
			pc++
		}
	}
}

// call is the shared helper behind the CALL-family opcodes: it builds a
// Message from the frame's perspective, asks the host to run it, and
// records the output as this frame's return data.
func (in *Interpreter) call(kind CallKind, contract *Contract, codeAddr, recipient types.Address, value *uint256.Int, input []byte, gas uint64, static bool) *CallResult {
	sender := contract.Address
	if kind == CallKindDelegateCall {
		sender = contract.CallerAddress
	}
	msg := &Message{
		Kind:        kind,
		Depth:       in.depth + 1,
		Gas:         gas,
		Recipient:   recipient,
		Sender:      sender,
		Value:       value,
		Input:       input,
		IsStatic:    static || in.readOnly,
		CodeAddress: codeAddr,
	}
	res := in.Host.Call(msg)
	in.returnData = res.Output
	return res
}
