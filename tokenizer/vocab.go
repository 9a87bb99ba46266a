// Package tokenizer implements the byte-level BPE vocabulary GGUF embeds:
// token strings and merge scores driving Encode/Decode, with a literal-byte
// and hex-escape fallback path for bytes the merge vocabulary never names
// directly.
package tokenizer

import (
	"fmt"

	"github.com/localllama/engine/gguf"
)

const noTokenID int32 = -1

// unsetSentinel is passed as the default to Metadata.Uint32 for the
// special-token keys, which are themselves defaultless in the wire format;
// Uint32 cannot express "absent" through its uint32 return type otherwise.
const unsetSentinel uint32 = 0xFFFFFFFF

// Vocabulary is the ordered token table plus the lookups Encode/Decode need:
// reverse string-to-id, special token ids, and a precomputed byte-token
// table for the <0xNN> escape path.
type Vocabulary struct {
	Tokens []string
	Scores []float32

	toID map[string]int32

	BOS, EOS, Pad int32

	byteTokens [256]int32 // token id for the literal single-byte string, or noTokenID
	hexTokens  [256]int32 // token id for "<0xNN>", or noTokenID
}

// NewVocabulary builds a Vocabulary from a GGUF file's tokenizer metadata.
func NewVocabulary(meta *gguf.Metadata) (*Vocabulary, error) {
	tokens := meta.StringArray("tokenizer.ggml.tokens")
	if len(tokens) == 0 {
		return nil, fmt.Errorf("tokenizer: metadata has no tokenizer.ggml.tokens array")
	}
	scores := meta.Float32Array("tokenizer.ggml.scores")

	v := &Vocabulary{
		Tokens: tokens,
		Scores: scores,
		toID:   make(map[string]int32, len(tokens)),
		BOS:    resolveSpecialID(meta, "tokenizer.ggml.bos_token_id"),
		EOS:    resolveSpecialID(meta, "tokenizer.ggml.eos_token_id"),
		Pad:    resolveSpecialID(meta, "tokenizer.ggml.padding_token_id"),
	}
	for i := range v.byteTokens {
		v.byteTokens[i] = noTokenID
		v.hexTokens[i] = noTokenID
	}

	for i, s := range tokens {
		v.toID[s] = int32(i)
	}
	for b := 0; b < 256; b++ {
		if id, ok := v.toID[string([]byte{byte(b)})]; ok {
			v.byteTokens[b] = id
		}
		if id, ok := v.toID[fmt.Sprintf("<0x%02X>", b)]; ok {
			v.hexTokens[b] = id
		}
	}

	return v, nil
}

func resolveSpecialID(meta *gguf.Metadata, key string) int32 {
	v := meta.Uint32(key, unsetSentinel)
	if v == unsetSentinel {
		return noTokenID
	}
	return int32(v)
}

// ID returns the token id for an exact vocabulary string, if present.
func (v *Vocabulary) ID(s string) (int32, bool) {
	id, ok := v.toID[s]
	return id, ok
}

// String returns the vocabulary string for a token id.
func (v *Vocabulary) String(id int32) (string, bool) {
	if id < 0 || int(id) >= len(v.Tokens) {
		return "", false
	}
	return v.Tokens[id], true
}

// IsSpecial reports whether id is one of the recognized special tokens.
func (v *Vocabulary) IsSpecial(id int32) bool {
	return id == v.BOS || id == v.EOS || id == v.Pad
}

// Size returns the vocabulary length.
func (v *Vocabulary) Size() int {
	return len(v.Tokens)
}
