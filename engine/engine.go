// Package engine exposes the public surface a driver embeds: loading a
// GGUF model, tokenizing text, and running token-by-token generation with
// between-token cancellation.
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/localllama/engine/kvcache"
	"github.com/localllama/engine/model"
	"github.com/localllama/engine/sample"
	"github.com/localllama/engine/tokenizer"
)

// Engine holds one loaded model and its tokenizer. It is safe to start
// multiple concurrent generations against the same Engine; each Generate
// call allocates its own KV cache, scratch buffers, and randomness.
type Engine struct {
	m   *model.Model
	tok *tokenizer.Tokenizer
}

// Load opens a GGUF file, memory-maps its weights, and builds the
// tokenizer from its embedded vocabulary.
func Load(path string) (*Engine, error) {
	m, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	tok, err := tokenizer.New(m.Metadata())
	if err != nil {
		m.Close()
		return nil, err
	}
	return &Engine{m: m, tok: tok}, nil
}

// Close releases the underlying memory mapping.
func (e *Engine) Close() error {
	return e.m.Close()
}

// Tokenize encodes UTF-8 text into a token id sequence.
func (e *Engine) Tokenize(text string) []int32 {
	return e.tok.Encode(text)
}

// Detokenize renders a token id sequence back to UTF-8 text.
func (e *Engine) Detokenize(ids []int32) string {
	return e.tok.Decode(ids)
}

// Token is one sampled step of a generation.
type Token struct {
	ID   int32
	Text string
}

// Result is one value sent on a Generate channel: either a Token, or a
// terminal error (the channel is closed immediately after an error).
type Result struct {
	Token Token
	Err   error
}

// GenerateOptions configures one generation call.
type GenerateOptions struct {
	Sampler    sample.Config
	MaxTokens  int
	PrependBOS bool
	RandSeed   int64
}

// Generate tokenizes prompt, runs the prompt through the forward pass, and
// then samples autoregressively, emitting each token on the returned
// channel as soon as it is sampled. Cancelling ctx stops generation
// between tokens; the tokens already produced are a success outcome, not
// an error.
func (e *Engine) Generate(ctx context.Context, prompt string, opts GenerateOptions) (uuid.UUID, <-chan Result, error) {
	genID := uuid.New()

	ids := e.tok.Encode(prompt)
	if opts.PrependBOS && e.tok.Vocab.BOS >= 0 {
		ids = append([]int32{e.tok.Vocab.BOS}, ids...)
	}

	params := e.m.Params
	cache, err := kvcache.New(params.NLayers, params.MaxSeqLen, params.KVDim)
	if err != nil {
		return genID, nil, err
	}
	rs := model.NewRunState(params)
	logits := make([]float32, params.VocabSize)

	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	out := make(chan Result)

	go func() {
		defer close(out)

		pos := 0
		for _, tokID := range ids {
			if pos >= params.MaxSeqLen {
				out <- Result{Err: &GenerationOverflowError{Position: pos, MaxSeqLen: params.MaxSeqLen}}
				return
			}
			if err := e.m.Forward(rs, cache, int(tokID), pos, logits); err != nil {
				out <- Result{Err: err}
				return
			}
			cache.Advance()
			pos++
		}

		var generated []int32
		maxTokens := opts.MaxTokens
		for i := 0; maxTokens <= 0 || i < maxTokens; i++ {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if pos >= params.MaxSeqLen {
				out <- Result{Err: &GenerationOverflowError{Position: pos, MaxSeqLen: params.MaxSeqLen}}
				return
			}

			next := sample.Sample(logits, generated, opts.Sampler, rng)
			generated = append(generated, next)

			text := e.tok.Decode([]int32{next})
			select {
			case out <- Result{Token: Token{ID: next, Text: text}}:
			case <-ctx.Done():
				return
			}

			if next == e.tok.Vocab.EOS {
				return
			}

			if err := e.m.Forward(rs, cache, int(next), pos, logits); err != nil {
				out <- Result{Err: err}
				return
			}
			cache.Advance()
			pos++
		}
	}()

	return genID, out, nil
}
