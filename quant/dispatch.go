// Package quant implements bit-exact dequantization of GGML tensor blocks
// into float32, covering the block formats a CPU-resident LLaMA engine
// actually encounters on disk.
package quant

import (
	"fmt"

	"github.com/localllama/engine/gguf"
)

// Dequantize expands nElements quantized values from data into out, which
// must already be sized to hold nElements float32s. data must hold exactly
// the number of bytes gguf.GGMLType.RowSize reports for nElements.
func Dequantize(data []byte, out []float32, nElements int, t gguf.GGMLType) error {
	if len(out) < nElements {
		return fmt.Errorf("quant: output buffer too small: have %d, need %d", len(out), nElements)
	}

	switch t {
	case gguf.GGMLTypeF32:
		dequantF32(data, out[:nElements])
		return nil
	case gguf.GGMLTypeF16:
		dequantF16(data, out[:nElements])
		return nil
	}

	layout, ok := blockLayoutFor(t)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedQuant, t)
	}

	blockSize, typeSize := layout.blockSize, layout.typeSize
	nBlocks := nElements / blockSize
	if nElements%blockSize != 0 {
		nBlocks++
	}
	if len(data) < nBlocks*typeSize {
		return fmt.Errorf("%w: short block data for %s: have %d bytes, need %d", gguf.ErrBadContainer, t, len(data), nBlocks*typeSize)
	}

	fn, ok := blockDequantFns[t]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedQuant, t)
	}

	scratch := make([]float32, blockSize)
	for b := 0; b < nBlocks; b++ {
		block := data[b*typeSize : (b+1)*typeSize]
		fn(block, scratch)

		start := b * blockSize
		end := start + blockSize
		if end > nElements {
			end = nElements
		}
		copy(out[start:end], scratch[:end-start])
	}
	return nil
}

type dequantBlockFn func(block []byte, out []float32)

var blockDequantFns = map[gguf.GGMLType]dequantBlockFn{
	gguf.GGMLTypeQ4_0: dequantQ4_0Block,
	gguf.GGMLTypeQ8_0: dequantQ8_0Block,
	gguf.GGMLTypeQ2_K: dequantQ2_KBlock,
	gguf.GGMLTypeQ3_K: dequantQ3_KBlock,
	gguf.GGMLTypeQ4_K: dequantQ4_KBlock,
	gguf.GGMLTypeQ5_K: dequantQ5_KBlock,
	gguf.GGMLTypeQ6_K: dequantQ6_KBlock,
}

type blockLayout struct {
	blockSize int
	typeSize  int
}

var blockLayouts = map[gguf.GGMLType]blockLayout{
	gguf.GGMLTypeQ4_0: {Q4_0BlockSize, Q4_0TypeSize},
	gguf.GGMLTypeQ8_0: {Q8_0BlockSize, Q8_0TypeSize},
	gguf.GGMLTypeQ2_K: {Q2_KBlockSize, Q2_KTypeSize},
	gguf.GGMLTypeQ3_K: {Q3_KBlockSize, Q3_KTypeSize},
	gguf.GGMLTypeQ4_K: {Q4_KBlockSize, Q4_KTypeSize},
	gguf.GGMLTypeQ5_K: {Q5_KBlockSize, Q5_KTypeSize},
	gguf.GGMLTypeQ6_K: {Q6_KBlockSize, Q6_KTypeSize},
}

func blockLayoutFor(t gguf.GGMLType) (blockLayout, bool) {
	l, ok := blockLayouts[t]
	return l, ok
}

// Supported reports whether t can be passed to Dequantize.
func Supported(t gguf.GGMLType) bool {
	switch t {
	case gguf.GGMLTypeF32, gguf.GGMLTypeF16:
		return true
	}
	_, ok := blockLayoutFor(t)
	return ok
}
