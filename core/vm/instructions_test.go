package vm

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/oi2996814/evmone/core/types"
)

func newTestFrame() (*Interpreter, *Contract, *Memory, *Stack) {
	host := newFakeHost()
	in := NewInterpreter(host, Latest)
	contract := NewContract(types.Address{}, types.Address{}, uint256.NewInt(0), 1000000)
	mem := NewMemory()
	stack := NewStack()
	return in, contract, mem, stack
}

func runOp(t *testing.T, fn executionFunc, in *Interpreter, contract *Contract, mem *Memory, stack *Stack) {
	var pc uint64
	if _, err := fn(&pc, in, contract, mem, stack); err != nil {
		t.Fatalf("op returned error: %v", err)
	}
}

func TestOpAdd(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	stack.Push(uint256.NewInt(2))
	stack.Push(uint256.NewInt(3))
	runOp(t, opAdd, in, contract, mem, stack)
	if got := stack.Pop(); !got.Eq(uint256.NewInt(5)) {
		t.Fatalf("2+3 = %s, want 5", got.Hex())
	}
}

func TestOpSubUnderflowWraps(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	// SUB computes (top of stack) - (second from top); to get 5-3, push the
	// subtrahend first so 5 ends up on top.
	stack.Push(uint256.NewInt(3))
	stack.Push(uint256.NewInt(5))
	runOp(t, opSub, in, contract, mem, stack)
	if got := stack.Pop(); !got.Eq(uint256.NewInt(2)) {
		t.Fatalf("5-3 = %s, want 2", got.Hex())
	}

	// 3-5 underflows and wraps modulo 2^256 to 2^256-2.
	stack.Push(uint256.NewInt(5))
	stack.Push(uint256.NewInt(3))
	runOp(t, opSub, in, contract, mem, stack)
	want := new(uint256.Int).Sub(new(uint256.Int), uint256.NewInt(2))
	if got := stack.Pop(); !got.Eq(want) {
		t.Fatalf("3-5 = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestOpDivByZeroIsZero(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	// DIV computes top/second; push the divisor first so 10 ends up on top.
	stack.Push(uint256.NewInt(0))
	stack.Push(uint256.NewInt(10))
	runOp(t, opDiv, in, contract, mem, stack)
	if got := stack.Pop(); !got.IsZero() {
		t.Fatalf("10/0 = %s, want 0 per EVM semantics", got.Hex())
	}
}

func TestOpLtAndGt(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	// LT/GT compare top against second; push the right-hand operand first.
	stack.Push(uint256.NewInt(5))
	stack.Push(uint256.NewInt(3))
	runOp(t, opLt, in, contract, mem, stack)
	if got := stack.Pop(); got.Uint64() != 1 {
		t.Fatalf("3<5 = %d, want 1", got.Uint64())
	}

	stack.Push(uint256.NewInt(3))
	stack.Push(uint256.NewInt(5))
	runOp(t, opGt, in, contract, mem, stack)
	if got := stack.Pop(); got.Uint64() != 1 {
		t.Fatalf("5>3 = %d, want 1", got.Uint64())
	}
}

func TestOpIsZero(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	stack.Push(uint256.NewInt(0))
	runOp(t, opIsZero, in, contract, mem, stack)
	if got := stack.Pop(); got.Uint64() != 1 {
		t.Fatalf("isZero(0) = %d, want 1", got.Uint64())
	}
}

func TestOpAndOrXorNot(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	stack.Push(uint256.NewInt(0xf0))
	stack.Push(uint256.NewInt(0x0f))
	runOp(t, opAnd, in, contract, mem, stack)
	if got := stack.Pop(); got.Uint64() != 0 {
		t.Fatalf("0xf0 & 0x0f = %x, want 0", got.Uint64())
	}

	stack.Push(uint256.NewInt(0xf0))
	stack.Push(uint256.NewInt(0x0f))
	runOp(t, opOr, in, contract, mem, stack)
	if got := stack.Pop(); got.Uint64() != 0xff {
		t.Fatalf("0xf0 | 0x0f = %x, want 0xff", got.Uint64())
	}

	stack.Push(uint256.NewInt(0xff))
	stack.Push(uint256.NewInt(0x0f))
	runOp(t, opXor, in, contract, mem, stack)
	if got := stack.Pop(); got.Uint64() != 0xf0 {
		t.Fatalf("0xff ^ 0x0f = %x, want 0xf0", got.Uint64())
	}

	stack.Push(uint256.NewInt(0))
	runOp(t, opNot, in, contract, mem, stack)
	if got := stack.Pop(); !got.Eq(new(uint256.Int).SetAllOne()) {
		t.Fatalf("^0 = %s, want all ones", got.Hex())
	}
}

func TestOpByte(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	val := uint256.NewInt(0)
	val.SetBytes([]byte{0x01, 0x02, 0x03})
	stack.Push(val)
	stack.Push(uint256.NewInt(31)) // least significant byte
	runOp(t, opByte, in, contract, mem, stack)
	if got := stack.Pop(); got.Uint64() != 0x03 {
		t.Fatalf("BYTE(31, ...0x010203) = %x, want 0x03", got.Uint64())
	}
}

func TestOpMstoreAndMload(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	mem.Resize(32)
	stack.Push(uint256.NewInt(0xdead))
	stack.Push(uint256.NewInt(0)) // offset
	runOp(t, opMstore, in, contract, mem, stack)

	stack.Push(uint256.NewInt(0)) // offset
	runOp(t, opMload, in, contract, mem, stack)
	if got := stack.Pop(); got.Uint64() != 0xdead {
		t.Fatalf("MLOAD after MSTORE = %x, want 0xdead", got.Uint64())
	}
}

func TestOpSstoreAndSload(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	stack.Push(uint256.NewInt(42))
	stack.Push(uint256.NewInt(0)) // key
	runOp(t, opSstore, in, contract, mem, stack)

	stack.Push(uint256.NewInt(0)) // key
	runOp(t, opSload, in, contract, mem, stack)
	if got := stack.Pop(); got.Uint64() != 42 {
		t.Fatalf("SLOAD after SSTORE = %d, want 42", got.Uint64())
	}
}

func TestOpPop(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	stack.Push(uint256.NewInt(1))
	runOp(t, opPop, in, contract, mem, stack)
	if stack.Len() != 0 {
		t.Fatalf("stack len after POP = %d, want 0", stack.Len())
	}
}

func TestOpSignExtend(t *testing.T) {
	in, contract, mem, stack := newTestFrame()
	// Sign-extend a negative single byte (0xff) from byte index 0.
	stack.Push(uint256.NewInt(0xff))
	stack.Push(uint256.NewInt(0))
	runOp(t, opSignExtend, in, contract, mem, stack)
	got := stack.Pop()
	var allOnes uint256.Int
	allOnes.SetAllOne()
	if !got.Eq(&allOnes) {
		t.Fatalf("SIGNEXTEND(0, 0xff) = %s, want all-ones", got.Hex())
	}
}
