// Package attn implements single-query, many-key attention over the dense
// key/value cache, including the grouped-query head mapping LLaMA-family
// models use.
package attn

import (
	"math"

	"github.com/localllama/engine/tensorops"
)

// KVHead maps a query head index to its grouped-query key/value head.
func KVHead(h, nHeads, nKVHeads int) int {
	return h * nKVHeads / nHeads
}

// Head computes attention for one query vector of length headDim against
// seqLen cached keys/values of the same width, writing the result into out
// (length headDim). keys and values are seqLen*headDim flattened arenas
// holding a single grouped head; the kv cache's readout methods return all
// kv heads per position, so callers extract one head's columns first.
//
// When seqLen is 0, out is zeroed.
func Head(out, q, keys, values []float32, seqLen, headDim int) {
	if seqLen == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}

	scores := make([]float32, seqLen)
	invSqrt := float32(1.0 / math.Sqrt(float64(headDim)))
	for t := 0; t < seqLen; t++ {
		kt := keys[t*headDim : (t+1)*headDim]
		dot, _ := tensorops.DotProduct(q, kt)
		scores[t] = dot * invSqrt
	}

	tensorops.Softmax(scores, seqLen)

	for i := range out {
		out[i] = 0
	}
	for t := 0; t < seqLen; t++ {
		vt := values[t*headDim : (t+1)*headDim]
		w := scores[t]
		for i := 0; i < headDim; i++ {
			out[i] += w * vt[i]
		}
	}
}
