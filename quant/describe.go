package quant

import "github.com/localllama/engine/gguf"

// Description summarizes a quantization type for inspection tooling,
// without dequantizing any tensor data.
type Description struct {
	Type      gguf.GGMLType
	BlockSize int
	TypeSize  int
	Supported bool
}

// Describe reports the block layout for t, if any is known, along with
// whether Dequantize accepts it. F32 and F16 report a block size of 1
// (they have no block structure) and their element byte width as TypeSize.
func Describe(t gguf.GGMLType) Description {
	switch t {
	case gguf.GGMLTypeF32:
		return Description{Type: t, BlockSize: 1, TypeSize: 4, Supported: true}
	case gguf.GGMLTypeF16:
		return Description{Type: t, BlockSize: 1, TypeSize: 2, Supported: true}
	}
	if layout, ok := blockLayoutFor(t); ok {
		return Description{Type: t, BlockSize: layout.blockSize, TypeSize: layout.typeSize, Supported: true}
	}
	return Description{Type: t, Supported: false}
}
