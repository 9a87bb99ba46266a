package tokenizer

import (
	"log/slog"

	"github.com/agnivade/levenshtein"
)

// encodeSeed turns the input text into its initial byte-seeded token
// sequence: one token per UTF-8 byte, matched first against a literal
// single-byte vocabulary entry, then against its <0xNN> hex escape, and
// finally (a path that should never trigger for a real LLaMA vocabulary)
// against pad_id, with a diagnostic logged so the failure isn't silent.
func (v *Vocabulary) encodeSeed(text string) []int32 {
	out := make([]int32, 0, len(text))
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch {
		case v.byteTokens[b] != noTokenID:
			out = append(out, v.byteTokens[b])
		case v.hexTokens[b] != noTokenID:
			out = append(out, v.hexTokens[b])
		default:
			out = append(out, v.Pad)
			v.logByteFallbackFailure(b)
		}
	}
	return out
}

// logByteFallbackFailure surfaces a diagnostic when a byte has neither a
// literal nor an escaped vocabulary entry, naming the closest vocabulary
// string by edit distance to help identify a malformed tokenizer.
func (v *Vocabulary) logByteFallbackFailure(b byte) {
	target := string([]byte{b})
	best := ""
	bestDist := -1
	for _, s := range v.Tokens {
		d := levenshtein.ComputeDistance(target, s)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = s
		}
	}
	slog.Warn("tokenizer: byte has no vocabulary token or hex escape, falling back to pad_id",
		"byte", b, "nearest_token", best, "edit_distance", bestDist)
}

// mergeStep finds the adjacent pair in ids whose concatenated string has
// the highest merge score among all mergeable adjacent pairs, or returns
// ok=false if none of the adjacent pairs concatenate to a known token.
// This is an O(n) scan per call; Encode calls it until no merge remains,
// giving the greedy algorithm an O(n^2) worst case on pathological inputs.
// Fine at the prompt lengths real generations produce.
func (v *Vocabulary) mergeStep(ids []int32) (idx int, merged int32, ok bool) {
	bestScore := float32(0)
	bestIdx := -1
	var bestID int32

	for i := 0; i < len(ids)-1; i++ {
		a, _ := v.String(ids[i])
		b, _ := v.String(ids[i+1])
		id, present := v.toID[a+b]
		if !present {
			continue
		}
		score := float32(0)
		if int(id) < len(v.Scores) {
			score = v.Scores[id]
		}
		if bestIdx == -1 || score > bestScore {
			bestScore = score
			bestIdx = i
			bestID = id
		}
	}

	if bestIdx == -1 {
		return 0, 0, false
	}
	return bestIdx, bestID, true
}

// encodeMerges runs greedy BPE merges over a byte-seeded token sequence
// until no adjacent pair merges, mutating and returning the shortened
// sequence.
func (v *Vocabulary) encodeMerges(ids []int32) []int32 {
	for len(ids) > 1 {
		idx, merged, ok := v.mergeStep(ids)
		if !ok {
			break
		}
		ids[idx] = merged
		ids = append(ids[:idx+1], ids[idx+2:]...)
	}
	return ids
}

// Decode concatenates the vocabulary strings for ids, resolving <0xNN>
// escape tokens back to their literal byte.
func (v *Vocabulary) Decode(ids []int32) string {
	out := make([]byte, 0, len(ids)*2)
	for _, id := range ids {
		s, ok := v.String(id)
		if !ok {
			continue
		}
		if b, isEscape := decodeHexEscape(s); isEscape {
			out = append(out, b)
			continue
		}
		out = append(out, s...)
	}
	return string(out)
}

func decodeHexEscape(s string) (byte, bool) {
	if len(s) != 6 || s[:3] != "<0x" || s[5] != '>' {
		return 0, false
	}
	hi, ok1 := hexDigit(s[3])
	lo, ok2 := hexDigit(s[4])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
