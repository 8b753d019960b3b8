package vm

import (
	"sync"

	"github.com/holiman/uint256"
)

// Memory implements the EVM's byte-addressable memory: it grows in
// 32-byte words and is always zero-extended, never shrunk, across a call
// frame's lifetime (expansion cost is charged once via gas_table.go and
// never refunded).
type Memory struct {
	store       []byte
	lastGasCost uint64
}

var memoryPool = sync.Pool{
	New: func() interface{} { return &Memory{} },
}

// NewMemory returns an empty Memory instance drawn from a pool, matching
// the pooling discipline already used for Stack.
func NewMemory() *Memory {
	return memoryPool.Get().(*Memory)
}

// ReturnMemory returns m to the pool for reuse by a later call frame.
func ReturnMemory(m *Memory) {
	m.store = m.store[:0]
	m.lastGasCost = 0
	memoryPool.Put(m)
}

// Set copies value into memory at the given offset. The caller is
// responsible for having already grown memory to cover [offset, offset+size).
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes a 32-byte word at the given offset, big-endian, zero-padded.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	copy(m.store[offset:offset+32], make([]byte, 32))
	val.WriteToSlice(m.store[offset : offset+32])
}

// Resize grows memory to the given size in bytes; size must already be
// rounded up to a whole number of 32-byte words by the caller (gas_table.go
// computes and charges for this rounding).
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) < size {
		m.store = append(m.store, make([]byte, size-uint64(len(m.store)))...)
	}
}

// Get returns a copy of the memory contents at [offset, offset+size).
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out
}

// GetPtr returns a direct slice reference to memory at [offset, offset+size);
// callers must not retain it past the next memory mutation.
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// Len returns the current length of memory in bytes.
func (m *Memory) Len() int {
	return len(m.store)
}

// Data returns the full backing slice.
func (m *Memory) Data() []byte {
	return m.store
}

// CopyWithinMemory implements the overlap-safe copy MCOPY needs (source
// and destination ranges may overlap in either direction).
func (m *Memory) CopyWithinMemory(dst, src, size uint64) {
	if size == 0 {
		return
	}
	copy(m.store[dst:dst+size], m.store[src:src+size])
}
