package tokenizer

import (
	"github.com/localllama/engine/gguf"
)

// Tokenizer drives Encode/Decode over a Vocabulary.
type Tokenizer struct {
	Vocab *Vocabulary
}

// New builds a Tokenizer from a GGUF file's metadata.
func New(meta *gguf.Metadata) (*Tokenizer, error) {
	vocab, err := NewVocabulary(meta)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{Vocab: vocab}, nil
}

// Encode tokenizes text: byte-seed the whole input, then run greedy BPE
// merges over the full sequence until no adjacent pair merges. No BOS
// token is prepended; callers that want one are responsible for it.
func (t *Tokenizer) Encode(text string) []int32 {
	seeded := t.Vocab.encodeSeed(text)
	return t.Vocab.encodeMerges(seeded)
}

// Decode renders a token id sequence back to UTF-8 text.
func (t *Tokenizer) Decode(ids []int32) string {
	return t.Vocab.Decode(ids)
}

// IsSpecial reports whether id is a recognized special token.
func (t *Tokenizer) IsSpecial(id int32) bool {
	return t.Vocab.IsSpecial(id)
}
