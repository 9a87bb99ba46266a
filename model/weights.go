package model

import (
	"fmt"

	"github.com/localllama/engine/gguf"
)

// LayerWeights indexes the tensors of one transformer layer. AttnNorm and
// FFNNorm may be absent (HasAttnNorm/HasFFNNorm false), in which case the
// forward pass substitutes an identity scale; every projection is
// mandatory.
type LayerWeights struct {
	HasAttnNorm bool
	AttnNorm    gguf.TensorInfo
	AttnQ       gguf.TensorInfo
	AttnK       gguf.TensorInfo
	AttnV       gguf.TensorInfo
	AttnOutput  gguf.TensorInfo

	HasFFNNorm bool
	FFNNorm    gguf.TensorInfo
	FFNGate    gguf.TensorInfo
	FFNUp      gguf.TensorInfo
	FFNDown    gguf.TensorInfo
}

// WeightIndex resolves the named tensors a LLaMA forward pass needs, built
// once from the tensor directory by matching "blk.<l>.<suffix>.weight".
type WeightIndex struct {
	TokenEmbd  gguf.TensorInfo
	OutputNorm gguf.TensorInfo
	Output     gguf.TensorInfo
	Layers     []LayerWeights
}

func requireTensor(f *gguf.File, name string) (gguf.TensorInfo, error) {
	t, ok := f.Tensor(name)
	if !ok {
		return gguf.TensorInfo{}, MissingWeight(name)
	}
	return t, nil
}

func optionalTensor(f *gguf.File, name string) (gguf.TensorInfo, bool) {
	return f.Tensor(name)
}

// NewWeightIndex builds a WeightIndex for a model with nLayers layers.
// output.weight falls back to token_embd.weight when absent, matching
// LLaMA checkpoints that tie the embedding and output projection.
func NewWeightIndex(f *gguf.File, params *Params) (*WeightIndex, error) {
	tokenEmbd, err := requireTensor(f, "token_embd.weight")
	if err != nil {
		return nil, err
	}

	outputNorm, err := requireTensor(f, "output_norm.weight")
	if err != nil {
		return nil, err
	}

	output, ok := optionalTensor(f, "output.weight")
	if !ok {
		output = tokenEmbd
	}

	layers := make([]LayerWeights, params.NLayers)
	for l := 0; l < params.NLayers; l++ {
		var lw LayerWeights

		if t, ok := optionalTensor(f, fmt.Sprintf("blk.%d.attn_norm.weight", l)); ok {
			lw.HasAttnNorm = true
			lw.AttnNorm = t
		}
		if t, ok := optionalTensor(f, fmt.Sprintf("blk.%d.ffn_norm.weight", l)); ok {
			lw.HasFFNNorm = true
			lw.FFNNorm = t
		}

		for name, dst := range map[string]*gguf.TensorInfo{
			fmt.Sprintf("blk.%d.attn_q.weight", l):      &lw.AttnQ,
			fmt.Sprintf("blk.%d.attn_k.weight", l):      &lw.AttnK,
			fmt.Sprintf("blk.%d.attn_v.weight", l):      &lw.AttnV,
			fmt.Sprintf("blk.%d.attn_output.weight", l): &lw.AttnOutput,
			fmt.Sprintf("blk.%d.ffn_gate.weight", l):    &lw.FFNGate,
			fmt.Sprintf("blk.%d.ffn_up.weight", l):      &lw.FFNUp,
			fmt.Sprintf("blk.%d.ffn_down.weight", l):    &lw.FFNDown,
		} {
			t, err := requireTensor(f, name)
			if err != nil {
				return nil, err
			}
			*dst = t
		}

		layers[l] = lw
	}

	return &WeightIndex{
		TokenEmbd:  tokenEmbd,
		OutputNorm: outputNorm,
		Output:     output,
		Layers:     layers,
	}, nil
}
