package vm

import (
	"sync"

	"github.com/holiman/uint256"
)

const stackLimit = 1024

// Stack is the EVM operand stack: at most 1024 256-bit words, each
// wrapping around on overflow exactly as EVM arithmetic defines.
type Stack struct {
	data []uint256.Int
}

var stackPool = sync.Pool{
	New: func() interface{} { return &Stack{data: make([]uint256.Int, 0, 16)} },
}

// NewStack returns a new empty stack drawn from a pool, matching the
// teacher's practice of pooling hot per-call allocations.
func NewStack() *Stack {
	return stackPool.Get().(*Stack)
}

// ReturnStack returns a stack to the pool for reuse by a later call frame.
func ReturnStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

// Push pushes a value onto the stack.
func (st *Stack) Push(val *uint256.Int) error {
	if len(st.data) >= stackLimit {
		return ErrStackOverflow
	}
	st.data = append(st.data, *val)
	return nil
}

// Pop removes and returns the top element.
func (st *Stack) Pop() uint256.Int {
	last := len(st.data) - 1
	v := st.data[last]
	st.data = st.data[:last]
	return v
}

// Peek returns the top element without removing it.
func (st *Stack) Peek() *uint256.Int {
	return &st.data[len(st.data)-1]
}

// Back returns a pointer to the nth element from the top (0-indexed: 0 = top).
func (st *Stack) Back(n int) *uint256.Int {
	return &st.data[len(st.data)-1-n]
}

// Swap swaps the top element with the nth element from the top.
func (st *Stack) Swap(n int) {
	top := len(st.data) - 1
	st.data[top], st.data[top-n] = st.data[top-n], st.data[top]
}

// Dup duplicates the nth element from the top (1-indexed, matching DUPn)
// and pushes the copy.
func (st *Stack) Dup(n int) {
	st.data = append(st.data, st.data[len(st.data)-n])
}

// Len returns the number of items on the stack.
func (st *Stack) Len() int {
	return len(st.data)
}

// Data returns the underlying stack slice (bottom to top). Callers must
// not retain it across a subsequent Push, which may reallocate.
func (st *Stack) Data() []uint256.Int {
	return st.data
}
