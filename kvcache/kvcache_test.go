package kvcache

import (
	"errors"
	"testing"
)

func TestKeyAtMutWriteAndReadback(t *testing.T) {
	c, err := New(2, 4, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	k, err := c.KeyAtMut(1, 2)
	if err != nil {
		t.Fatalf("KeyAtMut: %v", err)
	}
	copy(k, []float32{7, 8, 9})

	keys, err := c.Keys(1, 3)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	got := keys[2*3 : 2*3+3]
	want := []float32{7, 8, 9}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], v)
		}
	}
}

func TestOutOfRange(t *testing.T) {
	c, _ := New(1, 2, 3)
	if _, err := c.KeyAtMut(0, 5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if _, err := c.KeyAtMut(3, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestResetZeroesAndRewindsPosition(t *testing.T) {
	c, _ := New(1, 2, 2)
	k, _ := c.KeyAtMut(0, 0)
	copy(k, []float32{1, 2})
	c.Advance()
	if c.Position() != 1 {
		t.Fatalf("Position() = %d, want 1", c.Position())
	}

	c.Reset()
	if c.Position() != 0 {
		t.Fatalf("Position() after Reset = %d, want 0", c.Position())
	}
	keys, _ := c.Keys(0, 2)
	for i, v := range keys {
		if v != 0 {
			t.Fatalf("keys[%d] = %v after Reset, want 0", i, v)
		}
	}
}
