package engine

import (
	"errors"
	"fmt"
)

// ErrGenerationOverflow is returned when a generation would advance the KV
// cache position past max_seq_len.
var ErrGenerationOverflow = errors.New("generation would exceed max_seq_len")

// GenerationOverflowError reports the position a generation would have
// advanced to and the max_seq_len it would have exceeded.
type GenerationOverflowError struct {
	Position  int
	MaxSeqLen int
}

func (e *GenerationOverflowError) Error() string {
	return fmt.Sprintf("position %d would exceed max_seq_len %d", e.Position, e.MaxSeqLen)
}

func (e *GenerationOverflowError) Unwrap() error { return ErrGenerationOverflow }
