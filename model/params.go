package model

import (
	"fmt"

	"github.com/localllama/engine/gguf"
)

// Params is the immutable set of architecture hyperparameters a generation
// is built from, derived once from a GGUF file's metadata.
type Params struct {
	Arch       string
	Dim        int
	HiddenDim  int
	NLayers    int
	NHeads     int
	NKVHeads   int
	HeadDim    int
	KVDim      int
	VocabSize  int
	MaxSeqLen  int
	RopeTheta  float32
	RMSNormEps float32
}

// supportedArchitectures lists the LLaMA-family decoder graphs this engine
// knows how to run. TinyLlama, Llama 2/3 and most derivatives report
// "llama" here regardless of their actual training lineage.
var supportedArchitectures = map[string]bool{
	"llama": true,
}

// NewParams derives Params from GGUF metadata, validating the structural
// invariants the forward pass depends on.
func NewParams(meta *gguf.Metadata) (*Params, error) {
	arch := meta.Architecture()
	if !supportedArchitectures[arch] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedArch, arch)
	}

	dim := int(meta.Uint32("embedding_length", 0))
	hiddenDim := int(meta.Uint32("feed_forward_length", 0))
	nLayers := int(meta.Uint32("block_count", 0))
	nHeads := int(meta.Uint32("attention.head_count", 0))
	nKVHeads := int(meta.Uint32("attention.head_count_kv", 0))
	maxSeqLen := int(meta.Uint32("context_length", 0))
	vocabSize := int(meta.Uint32("vocab_size", 0))
	ropeTheta := meta.Float32("rope.freq_base", 10000.0)
	rmsNormEps := meta.Float32("attention.layer_norm_rms_epsilon", 1e-5)

	if nKVHeads == 0 {
		nKVHeads = nHeads
	}

	if dim <= 0 || nHeads <= 0 || nLayers <= 0 || vocabSize <= 0 || maxSeqLen <= 0 {
		return nil, fmt.Errorf("%w: required hyperparameter missing for architecture %q", ErrShapeMismatch, arch)
	}
	if dim%nHeads != 0 {
		return nil, fmt.Errorf("%w: dim %d not divisible by n_heads %d", ErrShapeMismatch, dim, nHeads)
	}
	headDim := dim / nHeads
	if nHeads%nKVHeads != 0 {
		return nil, fmt.Errorf("%w: n_heads %d not divisible by n_kv_heads %d", ErrShapeMismatch, nHeads, nKVHeads)
	}

	return &Params{
		Arch:       arch,
		Dim:        dim,
		HiddenDim:  hiddenDim,
		NLayers:    nLayers,
		NHeads:     nHeads,
		NKVHeads:   nKVHeads,
		HeadDim:    headDim,
		KVDim:      nKVHeads * headDim,
		VocabSize:  vocabSize,
		MaxSeqLen:  maxSeqLen,
		RopeTheta:  ropeTheta,
		RMSNormEps: rmsNormEps,
	}, nil
}
