package engine

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/localllama/engine/gguf"
)

const (
	wireUint32  uint32 = 4
	wireFloat32 uint32 = 6
	wireString  uint32 = 8
	wireArray   uint32 = 9
)

type testTensor struct {
	name string
	ne   []uint64
	data []float32
}

// fixtureParams describes one minimal LLaMA-shaped GGUF file carrying both
// tensors and a byte-level vocabulary, for exercising Engine without a real
// model file on disk.
type fixtureParams struct {
	dim, hiddenDim, nLayers, nHeads, nKVHeads, maxSeqLen int
	quantOverride                                        gguf.GGMLType
	quantOverrideTensor                                  string
	arch                                                 string
}

func buildEngineGGUF(t *testing.T, p fixtureParams) string {
	t.Helper()

	tokens := make([]string, 256)
	scores := make([]float32, 256)
	for b := 0; b < 256; b++ {
		tokens[b] = string([]byte{byte(b)})
	}
	tokens = append(tokens, "<bos>", "<eos>")
	scores = append(scores, 0, 0)
	bosID := uint32(256)
	eosID := uint32(257)
	vocabSize := len(tokens)

	kvDim := p.nKVHeads * (p.dim / p.nHeads)
	arch := p.arch
	if arch == "" {
		arch = "llama"
	}

	var buf bytes.Buffer
	buf.WriteString("GGUF")
	binary.Write(&buf, binary.LittleEndian, uint32(3))

	writeStr := func(s string) {
		binary.Write(&buf, binary.LittleEndian, uint64(len(s)))
		buf.WriteString(s)
	}

	tensors := []testTensor{
		{"token_embd.weight", []uint64{uint64(p.dim), uint64(vocabSize)}, fill(p.dim * vocabSize)},
		{"output_norm.weight", []uint64{uint64(p.dim)}, ones(p.dim)},
		{"output.weight", []uint64{uint64(p.dim), uint64(vocabSize)}, fill(p.dim * vocabSize)},
	}
	for l := 0; l < p.nLayers; l++ {
		tensors = append(tensors,
			testTensor{fname(l, "attn_norm"), []uint64{uint64(p.dim)}, ones(p.dim)},
			testTensor{fname(l, "attn_q"), []uint64{uint64(p.dim), uint64(p.dim)}, fill(p.dim * p.dim)},
			testTensor{fname(l, "attn_k"), []uint64{uint64(p.dim), uint64(kvDim)}, fill(p.dim * kvDim)},
			testTensor{fname(l, "attn_v"), []uint64{uint64(p.dim), uint64(kvDim)}, fill(p.dim * kvDim)},
			testTensor{fname(l, "attn_output"), []uint64{uint64(p.dim), uint64(p.dim)}, fill(p.dim * p.dim)},
			testTensor{fname(l, "ffn_norm"), []uint64{uint64(p.dim)}, ones(p.dim)},
			testTensor{fname(l, "ffn_gate"), []uint64{uint64(p.dim), uint64(p.hiddenDim)}, fill(p.dim * p.hiddenDim)},
			testTensor{fname(l, "ffn_up"), []uint64{uint64(p.dim), uint64(p.hiddenDim)}, fill(p.dim * p.hiddenDim)},
			testTensor{fname(l, "ffn_down"), []uint64{uint64(p.hiddenDim), uint64(p.dim)}, fill(p.dim * p.hiddenDim)},
		)
	}

	tensorType := make(map[string]gguf.GGMLType, len(tensors))
	for _, tn := range tensors {
		tensorType[tn.name] = gguf.GGMLTypeF32
	}
	if p.quantOverrideTensor != "" {
		tensorType[p.quantOverrideTensor] = p.quantOverride
	}

	type scalarKV struct {
		key string
		tag uint32
		val any
	}
	scalars := []scalarKV{
		{"general.architecture", wireString, arch},
		{arch + ".embedding_length", wireUint32, uint32(p.dim)},
		{arch + ".feed_forward_length", wireUint32, uint32(p.hiddenDim)},
		{arch + ".block_count", wireUint32, uint32(p.nLayers)},
		{arch + ".attention.head_count", wireUint32, uint32(p.nHeads)},
		{arch + ".attention.head_count_kv", wireUint32, uint32(p.nKVHeads)},
		{arch + ".context_length", wireUint32, uint32(p.maxSeqLen)},
		{arch + ".vocab_size", wireUint32, uint32(vocabSize)},
		{"tokenizer.ggml.bos_token_id", wireUint32, bosID},
		{"tokenizer.ggml.eos_token_id", wireUint32, eosID},
	}

	binary.Write(&buf, binary.LittleEndian, uint64(len(tensors)))
	binary.Write(&buf, binary.LittleEndian, uint64(len(scalars)+2))

	for _, e := range scalars {
		writeStr(e.key)
		binary.Write(&buf, binary.LittleEndian, e.tag)
		switch e.tag {
		case wireUint32:
			binary.Write(&buf, binary.LittleEndian, e.val.(uint32))
		case wireString:
			writeStr(e.val.(string))
		}
	}

	writeStr("tokenizer.ggml.tokens")
	binary.Write(&buf, binary.LittleEndian, wireArray)
	binary.Write(&buf, binary.LittleEndian, wireString)
	binary.Write(&buf, binary.LittleEndian, uint64(len(tokens)))
	for _, s := range tokens {
		writeStr(s)
	}

	writeStr("tokenizer.ggml.scores")
	binary.Write(&buf, binary.LittleEndian, wireArray)
	binary.Write(&buf, binary.LittleEndian, wireFloat32)
	binary.Write(&buf, binary.LittleEndian, uint64(len(scores)))
	for _, s := range scores {
		binary.Write(&buf, binary.LittleEndian, s)
	}

	var dataBuf bytes.Buffer
	offsets := make([]uint64, len(tensors))
	for i, tn := range tensors {
		offsets[i] = uint64(dataBuf.Len())
		for _, v := range tn.data {
			binary.Write(&dataBuf, binary.LittleEndian, v)
		}
	}

	for i, tn := range tensors {
		writeStr(tn.name)
		binary.Write(&buf, binary.LittleEndian, uint32(len(tn.ne)))
		for _, d := range tn.ne {
			binary.Write(&buf, binary.LittleEndian, d)
		}
		binary.Write(&buf, binary.LittleEndian, uint32(tensorType[tn.name]))
		binary.Write(&buf, binary.LittleEndian, offsets[i])
	}

	headerLen := buf.Len()
	alignment := 32
	pad := (alignment - headerLen%alignment) % alignment
	buf.Write(make([]byte, pad))
	buf.Write(dataBuf.Bytes())

	path := filepath.Join(t.TempDir(), "model.gguf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func fname(l int, suffix string) string {
	return "blk." + strconv.Itoa(l) + "." + suffix + ".weight"
}

func fill(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i%7) * 0.05
	}
	return out
}

func ones(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
