// Package sample implements the next-token sampling pipeline: repeat
// penalty, temperature, top-k, top-p nucleus filtering and a categorical
// draw over the surviving distribution.
package sample

import (
	"math/rand"
	"sort"

	"github.com/emirpasic/gods/v2/trees/binaryheap"

	"github.com/localllama/engine/tensorops"
)

// Config is the sampler's configuration record. It is stateless across
// calls except for the caller-owned randomness source passed to Sample.
type Config struct {
	Temperature   float32
	TopP          float32
	TopK          int
	RepeatPenalty float32
	RepeatLastN   int
}

// candidate pairs a surviving logit with its original vocabulary index,
// so filtering stages can reorder freely without losing the token id.
type candidate struct {
	id     int32
	logit  float32
	origIx int
}

// byLogitDesc orders candidates by descending logit, original index
// ascending as the tiebreak so the first occurrence wins.
func byLogitDesc(a, b candidate) int {
	if a.logit != b.logit {
		if a.logit > b.logit {
			return -1
		}
		return 1
	}
	if a.origIx != b.origIx {
		if a.origIx < b.origIx {
			return -1
		}
		return 1
	}
	return 0
}

// Sample runs the full pipeline over logits (mutated in place by the
// repeat-penalty and temperature stages) and returns the drawn token id.
// rng is the per-generation randomness source.
func Sample(logits []float32, lastTokens []int32, cfg Config, rng *rand.Rand) int32 {
	applyRepeatPenalty(logits, lastTokens, cfg.RepeatPenalty, cfg.RepeatLastN)

	if cfg.Temperature <= 0 {
		return argmax(logits)
	}

	if cfg.Temperature != 1 {
		for i := range logits {
			logits[i] /= cfg.Temperature
		}
	}

	survivors := topK(logits, cfg.TopK)
	probs := make([]float32, len(survivors))
	for i, c := range survivors {
		probs[i] = c.logit
	}
	tensorops.Softmax(probs, len(probs))
	for i := range survivors {
		survivors[i].logit = probs[i]
	}

	survivors = topP(survivors, cfg.TopP)

	return survivors[categoricalDraw(survivors, rng)].id
}

// categoricalDraw picks an index from survivors with probability
// proportional to its logit (already a normalized probability by this
// point), via a cumulative-sum scan over a single uniform draw — the
// literal §4.J step-7 categorical draw.
func categoricalDraw(survivors []candidate, rng *rand.Rand) int {
	r := rng.Float64()
	var cum float64
	for i, c := range survivors {
		cum += float64(c.logit)
		if r < cum {
			return i
		}
	}
	return len(survivors) - 1
}

// applyRepeatPenalty divides positive logits and multiplies non-positive
// logits by penalty, for each token seen in the last repeatLastN entries
// of lastTokens. A penalty of 1 is a no-op.
func applyRepeatPenalty(logits []float32, lastTokens []int32, penalty float32, repeatLastN int) {
	if penalty == 1 {
		return
	}
	start := len(lastTokens) - repeatLastN
	if start < 0 {
		start = 0
	}
	for _, id := range lastTokens[start:] {
		if int(id) < 0 || int(id) >= len(logits) {
			continue
		}
		if logits[id] > 0 {
			logits[id] /= penalty
		} else {
			logits[id] *= penalty
		}
	}
}

// argmax returns the index of the largest value in v, first occurrence
// winning ties.
func argmax(v []float32) int32 {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return int32(best)
}

// topK keeps the k highest logits (first occurrence wins ties), or all of
// them if k <= 0, in descending order. It holds a min-heap bounded to size
// k: each new candidate is pushed only if it beats the current worst kept
// candidate, which is then evicted — O(n log k) rather than sorting all of
// vocab_size.
func topK(logits []float32, k int) []candidate {
	n := len(logits)
	if k <= 0 || k > n {
		k = n
	}

	ascending := func(a, b candidate) int { return byLogitDesc(b, a) }
	heap := binaryheap.NewWith(ascending)

	for i, v := range logits {
		c := candidate{id: int32(i), logit: v, origIx: i}
		if heap.Size() < k {
			heap.Push(c)
			continue
		}
		if worst, ok := heap.Peek(); ok && byLogitDesc(c, worst) < 0 {
			heap.Pop()
			heap.Push(c)
		}
	}

	out := make([]candidate, heap.Size())
	for i := len(out) - 1; i >= 0; i-- {
		c, ok := heap.Pop()
		if !ok {
			break
		}
		out[i] = c
	}
	return out
}

// topP keeps the smallest prefix of probability-sorted survivors whose
// cumulative mass exceeds p, then renormalizes. p <= 0 or p >= 1 is a
// no-op (every survivor from top-k is kept).
func topP(survivors []candidate, p float32) []candidate {
	if p <= 0 || p >= 1 {
		return survivors
	}

	sorted := append([]candidate(nil), survivors...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].logit > sorted[j].logit })

	var cum float32
	cut := len(sorted)
	for i, c := range sorted {
		cum += c.logit
		if cum > p {
			cut = i + 1
			break
		}
	}
	sorted = sorted[:cut]

	var sum float32
	for _, c := range sorted {
		sum += c.logit
	}
	for i := range sorted {
		sorted[i].logit /= sum
	}
	return sorted
}
