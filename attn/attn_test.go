package attn

import (
	"math"
	"testing"
)

func TestKVHeadMapping(t *testing.T) {
	// 8 query heads, 2 kv heads: heads 0-3 -> kv 0, heads 4-7 -> kv 1.
	cases := map[int]int{0: 0, 1: 0, 3: 0, 4: 1, 7: 1}
	for h, want := range cases {
		if got := KVHead(h, 8, 2); got != want {
			t.Fatalf("KVHead(%d) = %d, want %d", h, got, want)
		}
	}
}

func TestHeadZeroSeqLen(t *testing.T) {
	out := []float32{9, 9, 9}
	Head(out, []float32{1, 2, 3}, nil, nil, 0, 3)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, v)
		}
	}
}

func TestHeadSingleKVPairExact(t *testing.T) {
	q := []float32{1, 0}
	keys := []float32{1, 0}
	values := []float32{5, 7}
	out := make([]float32, 2)
	Head(out, q, keys, values, 1, 2)
	// single timestep: softmax over one score is always 1.0
	if math.Abs(float64(out[0]-5)) > 1e-5 || math.Abs(float64(out[1]-7)) > 1e-5 {
		t.Fatalf("out = %v, want [5 7]", out)
	}
}

func TestHeadOutputIsConvexCombination(t *testing.T) {
	q := []float32{1, 0}
	keys := []float32{1, 0, 0, 1, 1, 1}
	values := []float32{1, 0, 0, 1, 1, 1}
	out := make([]float32, 2)
	Head(out, q, keys, values, 3, 2)
	// output is a convex combination of the value vectors, so both
	// coordinates must land within the span of the inputs.
	for _, v := range out {
		if v < 0 || v > 1 {
			t.Fatalf("out = %v, expected convex combination in [0,1]", out)
		}
	}
}
