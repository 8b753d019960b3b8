package vm

import "testing"

func TestRunBlake2FRejectsWrongLength(t *testing.T) {
	_, err := runBlake2F(make([]byte, 212))
	if err == nil {
		t.Fatal("runBlake2F must reject input shorter than 213 bytes")
	}
	_, err = runBlake2F(make([]byte, 214))
	if err == nil {
		t.Fatal("runBlake2F must reject input longer than 213 bytes")
	}
}

func TestRunBlake2FRejectsInvalidFinalFlag(t *testing.T) {
	input := make([]byte, 213)
	input[212] = 2 // only 0 or 1 are valid
	_, err := runBlake2F(input)
	if err == nil {
		t.Fatal("runBlake2F must reject a final-block flag other than 0 or 1")
	}
}

func TestRunBlake2FProducesSixtyFourBytes(t *testing.T) {
	input := make([]byte, 213)
	input[212] = 1 // valid final flag, zero rounds/state otherwise
	out, err := runBlake2F(input)
	if err != nil {
		t.Fatalf("runBlake2F: %v", err)
	}
	if len(out) != 64 {
		t.Fatalf("output length = %d, want 64", len(out))
	}
}

func TestRotr64(t *testing.T) {
	if got := rotr64(1, 1); got != 1<<63 {
		t.Fatalf("rotr64(1,1) = %x, want %x", got, uint64(1)<<63)
	}
	if got := rotr64(0x8000000000000000, 63); got != 1 {
		t.Fatalf("rotr64(1<<63, 63) = %x, want 1", got)
	}
}
