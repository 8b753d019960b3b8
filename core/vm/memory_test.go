package vm

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
)

func TestMemorySetAndGet(t *testing.T) {
	m := NewMemory()
	defer ReturnMemory(m)

	m.Resize(32)
	m.Set(0, 4, []byte{1, 2, 3, 4})

	got := m.Get(0, 4)
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("Get = %x, want 01020304", got)
	}
	// Rest of the word should still be zero.
	rest := m.Get(4, 28)
	for i, b := range rest {
		if b != 0 {
			t.Fatalf("byte %d = %x, want 0", i, b)
		}
	}
}

func TestMemorySet32(t *testing.T) {
	m := NewMemory()
	defer ReturnMemory(m)

	m.Resize(32)
	val := uint256.NewInt(0xdeadbeef)
	m.Set32(0, val)

	got := m.Get(0, 32)
	want := make([]byte, 32)
	val.WriteToSlice(want)
	if !bytes.Equal(got, want) {
		t.Fatalf("Set32/Get = %x, want %x", got, want)
	}
}

func TestMemoryResizeGrowsOnly(t *testing.T) {
	m := NewMemory()
	defer ReturnMemory(m)

	m.Resize(32)
	m.Set(0, 4, []byte{1, 2, 3, 4})
	m.Resize(64)
	if m.Len() != 64 {
		t.Fatalf("Len = %d, want 64", m.Len())
	}
	// Growing must not disturb existing data.
	got := m.Get(0, 4)
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("data after resize = %x, want 01020304", got)
	}
	m.Resize(32) // shrinking request must be a no-op
	if m.Len() != 64 {
		t.Fatalf("Len after shrink request = %d, want 64", m.Len())
	}
}

func TestMemoryCopyWithinMemoryOverlap(t *testing.T) {
	m := NewMemory()
	defer ReturnMemory(m)

	m.Resize(64)
	m.Set(0, 8, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	// Overlapping forward copy, as MCOPY must support.
	m.CopyWithinMemory(4, 0, 8)

	got := m.Get(4, 8)
	if !bytes.Equal(got, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("overlapping copy = %x, want 0102030405060708", got)
	}
}

func TestReturnMemoryResetsState(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	m.Set(0, 4, []byte{1, 2, 3, 4})
	ReturnMemory(m)

	m2 := NewMemory()
	if m2.Len() != 0 {
		t.Fatalf("reused memory Len = %d, want 0", m2.Len())
	}
	ReturnMemory(m2)
}
