package vm

import (
	"github.com/holiman/uint256"

	"github.com/oi2996814/evmone/core/types"
)

// Tracer captures EVM execution step by step. The interpreter's hot path
// calls CaptureState before each step only when a tracer is installed (a
// nil check), keeping untraced execution free of any tracing overhead.
type Tracer interface {
	CaptureStart(from, to types.Address, create bool, input []byte, gas uint64, value *uint256.Int)
	CaptureState(pc uint64, op OpCode, gas, cost uint64, stack *Stack, memory *Memory, depth int, err error)
	CaptureEnd(output []byte, gasUsed uint64, err error)
}

// StructLogEntry is a single step recorded by StructLogTracer.
type StructLogEntry struct {
	Pc      uint64
	Op      OpCode
	Gas     uint64
	GasCost uint64
	Depth   int
	Stack   []uint256.Int
	Err     error
}

// StructLogTracer collects step-by-step EVM execution logs, the way a
// debug_traceTransaction-style consumer would.
type StructLogTracer struct {
	Logs    []StructLogEntry
	output  []byte
	err     error
	gasUsed uint64
}

// NewStructLogTracer returns a new StructLogTracer.
func NewStructLogTracer() *StructLogTracer {
	return &StructLogTracer{}
}

func (t *StructLogTracer) CaptureStart(from, to types.Address, create bool, input []byte, gas uint64, value *uint256.Int) {
}

func (t *StructLogTracer) CaptureState(pc uint64, op OpCode, gas, cost uint64, stack *Stack, memory *Memory, depth int, err error) {
	data := stack.Data()
	stackCopy := make([]uint256.Int, len(data))
	copy(stackCopy, data)

	t.Logs = append(t.Logs, StructLogEntry{
		Pc:      pc,
		Op:      op,
		Gas:     gas,
		GasCost: cost,
		Depth:   depth,
		Stack:   stackCopy,
		Err:     err,
	})
}

func (t *StructLogTracer) CaptureEnd(output []byte, gasUsed uint64, err error) {
	t.output = output
	t.gasUsed = gasUsed
	t.err = err
}

func (t *StructLogTracer) Output() []byte { return t.output }
func (t *StructLogTracer) GasUsed() uint64 { return t.gasUsed }
func (t *StructLogTracer) Error() error    { return t.err }
