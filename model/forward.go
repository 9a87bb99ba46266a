package model

import (
	"github.com/localllama/engine/attn"
	"github.com/localllama/engine/kvcache"
	"github.com/localllama/engine/quant"
	"github.com/localllama/engine/rope"
	"github.com/localllama/engine/tensorops"
)

// RunState holds the scratch buffers a single generation's forward passes
// reuse across every token and every layer, sized once from Params up
// front rather than allocated per call.
type RunState struct {
	x       []float32 // residual stream, dim
	xb      []float32 // normalized scratch, dim
	q       []float32 // dim
	k       []float32 // kv_dim
	v       []float32 // kv_dim
	attnOut []float32 // dim
	hb      []float32 // hidden_dim (gate)
	hb2     []float32 // hidden_dim (up)
	xb2     []float32 // dim
}

// NewRunState allocates scratch buffers sized for one generation.
func NewRunState(p *Params) *RunState {
	return &RunState{
		x:       make([]float32, p.Dim),
		xb:      make([]float32, p.Dim),
		q:       make([]float32, p.Dim),
		k:       make([]float32, p.KVDim),
		v:       make([]float32, p.KVDim),
		attnOut: make([]float32, p.Dim),
		hb:      make([]float32, p.HiddenDim),
		hb2:     make([]float32, p.HiddenDim),
		xb2:     make([]float32, p.Dim),
	}
}

// embedRow dequantizes the token_embd row for tokenID into out (length
// dim).
func (m *Model) embedRow(tokenID int, out []float32) error {
	t := m.Weights.TokenEmbd
	dim := m.Params.Dim

	if !quant.Supported(t.Type) {
		return UnsupportedQuant(t.Name, t.Type)
	}

	data, err := m.store.Data(t)
	if err != nil {
		return err
	}
	rowBytes := t.Type.RowSize(uint64(dim))
	start := uint64(tokenID) * rowBytes
	row := data[start : start+rowBytes]

	return quant.Dequantize(row, out, dim, t.Type)
}

// Forward runs one token through the transformer, writing vocab_size
// logits into logits. cache must already hold keys/values for positions
// [0, pos) and is written to at position pos as a side effect.
func (m *Model) Forward(rs *RunState, cache *kvcache.Cache, tokenID, pos int, logits []float32) error {
	p := m.Params

	if err := m.embedRow(tokenID, rs.x); err != nil {
		return err
	}

	for l := 0; l < p.NLayers; l++ {
		lw := m.Weights.Layers[l]

		attnNormW, err := m.normWeight(lw.AttnNorm, lw.HasAttnNorm, p.Dim)
		if err != nil {
			return err
		}
		tensorops.RMSNormInto(rs.xb, rs.x, attnNormW, p.RMSNormEps)

		wq, err := m.dequantFull(lw.AttnQ)
		if err != nil {
			return err
		}
		if err := tensorops.MatMul(rs.q, wq, rs.xb, p.Dim, p.Dim); err != nil {
			return err
		}

		wk, err := m.dequantFull(lw.AttnK)
		if err != nil {
			return err
		}
		if err := tensorops.MatMul(rs.k, wk, rs.xb, p.KVDim, p.Dim); err != nil {
			return err
		}

		wv, err := m.dequantFull(lw.AttnV)
		if err != nil {
			return err
		}
		if err := tensorops.MatMul(rs.v, wv, rs.xb, p.KVDim, p.Dim); err != nil {
			return err
		}

		rope.ApplyHeads(rs.q, p.NHeads, p.HeadDim, pos, p.RopeTheta)
		rope.ApplyHeads(rs.k, p.NKVHeads, p.HeadDim, pos, p.RopeTheta)

		keySlot, err := cache.KeyAtMut(l, pos)
		if err != nil {
			return err
		}
		copy(keySlot, rs.k)
		valSlot, err := cache.ValueAtMut(l, pos)
		if err != nil {
			return err
		}
		copy(valSlot, rs.v)

		seqLen := pos + 1
		for h := 0; h < p.NHeads; h++ {
			kvH := attn.KVHead(h, p.NHeads, p.NKVHeads)

			keys, err := cache.Keys(l, seqLen)
			if err != nil {
				return err
			}
			values, err := cache.Values(l, seqLen)
			if err != nil {
				return err
			}

			qHead := rs.q[h*p.HeadDim : (h+1)*p.HeadDim]
			out := rs.attnOut[h*p.HeadDim : (h+1)*p.HeadDim]
			attn.Head(out, qHead, kvHeadSlice(keys, kvH, p.NKVHeads, seqLen, p.HeadDim), kvHeadSlice(values, kvH, p.NKVHeads, seqLen, p.HeadDim), seqLen, p.HeadDim)
		}

		wo, err := m.dequantFull(lw.AttnOutput)
		if err != nil {
			return err
		}
		if err := tensorops.MatMul(rs.xb2, wo, rs.attnOut, p.Dim, p.Dim); err != nil {
			return err
		}
		if err := tensorops.AddInto(rs.x, rs.x, rs.xb2); err != nil {
			return err
		}

		ffnNormW, err := m.normWeight(lw.FFNNorm, lw.HasFFNNorm, p.Dim)
		if err != nil {
			return err
		}
		tensorops.RMSNormInto(rs.xb, rs.x, ffnNormW, p.RMSNormEps)

		wGate, err := m.dequantFull(lw.FFNGate)
		if err != nil {
			return err
		}
		if err := tensorops.MatMul(rs.hb, wGate, rs.xb, p.HiddenDim, p.Dim); err != nil {
			return err
		}
		wUp, err := m.dequantFull(lw.FFNUp)
		if err != nil {
			return err
		}
		if err := tensorops.MatMul(rs.hb2, wUp, rs.xb, p.HiddenDim, p.Dim); err != nil {
			return err
		}

		tensorops.SiLUInPlace(rs.hb)
		if err := tensorops.MulInto(rs.hb, rs.hb, rs.hb2); err != nil {
			return err
		}

		wDown, err := m.dequantFull(lw.FFNDown)
		if err != nil {
			return err
		}
		if err := tensorops.MatMul(rs.xb2, wDown, rs.hb, p.Dim, p.HiddenDim); err != nil {
			return err
		}
		if err := tensorops.AddInto(rs.x, rs.x, rs.xb2); err != nil {
			return err
		}
	}

	outputNormW, err := m.dequantFull(m.Weights.OutputNorm)
	if err != nil {
		return err
	}
	tensorops.RMSNormInto(rs.xb, rs.x, outputNormW, p.RMSNormEps)

	wOut, err := m.dequantFull(m.Weights.Output)
	if err != nil {
		return err
	}
	return tensorops.MatMul(logits, wOut, rs.xb, p.VocabSize, p.Dim)
}

// kvHeadSlice extracts one grouped-query head's columns from a flattened
// [seqLen, kvDim] arena, returning a [seqLen, headDim] contiguous copy.
func kvHeadSlice(arena []float32, kvHead, nKVHeads, seqLen, headDim int) []float32 {
	kvDim := nKVHeads * headDim
	out := make([]float32, seqLen*headDim)
	for t := 0; t < seqLen; t++ {
		src := arena[t*kvDim+kvHead*headDim : t*kvDim+(kvHead+1)*headDim]
		copy(out[t*headDim:(t+1)*headDim], src)
	}
	return out
}
