package model

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
)

type testTensor struct {
	name string
	ne   []uint64
	data []float32
}

// buildLLaMAGGUF assembles a minimal, single-layer LLaMA-shaped GGUF file
// with every tensor stored as F32, for exercising Load and Forward without
// a real model file on disk.
func buildLLaMAGGUF(t *testing.T, dim, hiddenDim, nLayers, nHeads, nKVHeads, vocabSize, maxSeqLen int, skip ...string) string {
	t.Helper()
	return buildGGUFWithArch(t, "llama", dim, hiddenDim, nLayers, nHeads, nKVHeads, vocabSize, maxSeqLen, skip...)
}

func buildGGUFWithArch(t *testing.T, arch string, dim, hiddenDim, nLayers, nHeads, nKVHeads, vocabSize, maxSeqLen int, skip ...string) string {
	t.Helper()
	kvDim := nKVHeads * (dim / nHeads)
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}

	var buf bytes.Buffer
	buf.WriteString("GGUF")
	binary.Write(&buf, binary.LittleEndian, uint32(3))

	writeStr := func(s string) {
		binary.Write(&buf, binary.LittleEndian, uint64(len(s)))
		buf.WriteString(s)
	}

	type kv struct {
		key string
		tag uint32
		val any
	}
	kvs := []kv{
		{"general.architecture", wireString, arch},
		{arch + ".embedding_length", wireUint32, uint32(dim)},
		{arch + ".feed_forward_length", wireUint32, uint32(hiddenDim)},
		{arch + ".block_count", wireUint32, uint32(nLayers)},
		{arch + ".attention.head_count", wireUint32, uint32(nHeads)},
		{arch + ".attention.head_count_kv", wireUint32, uint32(nKVHeads)},
		{arch + ".context_length", wireUint32, uint32(maxSeqLen)},
		{arch + ".vocab_size", wireUint32, uint32(vocabSize)},
	}

	tensors := []testTensor{
		{"token_embd.weight", []uint64{uint64(dim), uint64(vocabSize)}, fill(dim * vocabSize)},
		{"output_norm.weight", []uint64{uint64(dim)}, ones(dim)},
		{"output.weight", []uint64{uint64(dim), uint64(vocabSize)}, fill(dim * vocabSize)},
	}
	for l := 0; l < nLayers; l++ {
		tensors = append(tensors,
			testTensor{fname(l, "attn_norm"), []uint64{uint64(dim)}, ones(dim)},
			testTensor{fname(l, "attn_q"), []uint64{uint64(dim), uint64(dim)}, fill(dim * dim)},
			testTensor{fname(l, "attn_k"), []uint64{uint64(dim), uint64(kvDim)}, fill(dim * kvDim)},
			testTensor{fname(l, "attn_v"), []uint64{uint64(dim), uint64(kvDim)}, fill(dim * kvDim)},
			testTensor{fname(l, "attn_output"), []uint64{uint64(dim), uint64(dim)}, fill(dim * dim)},
			testTensor{fname(l, "ffn_norm"), []uint64{uint64(dim)}, ones(dim)},
			testTensor{fname(l, "ffn_gate"), []uint64{uint64(dim), uint64(hiddenDim)}, fill(dim * hiddenDim)},
			testTensor{fname(l, "ffn_up"), []uint64{uint64(dim), uint64(hiddenDim)}, fill(dim * hiddenDim)},
			testTensor{fname(l, "ffn_down"), []uint64{uint64(hiddenDim), uint64(dim)}, fill(dim * hiddenDim)},
		)
	}

	if len(skipped) > 0 {
		kept := tensors[:0]
		for _, tn := range tensors {
			if !skipped[tn.name] {
				kept = append(kept, tn)
			}
		}
		tensors = kept
	}

	binary.Write(&buf, binary.LittleEndian, uint64(len(tensors)))
	binary.Write(&buf, binary.LittleEndian, uint64(len(kvs)))

	for _, e := range kvs {
		writeStr(e.key)
		binary.Write(&buf, binary.LittleEndian, e.tag)
		switch e.tag {
		case wireUint32:
			binary.Write(&buf, binary.LittleEndian, e.val.(uint32))
		case wireString:
			writeStr(e.val.(string))
		}
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
		binary.Write(&buf, binary.LittleEndian, uint32(gguf.GGMLTypeF32))
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
