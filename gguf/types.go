package gguf

import "fmt"

// GGMLType is the tagged block-format enum carried by every tensor
// descriptor in the GGUF tensor directory. The numeric values match the
// ggml_type wire values so they can be read directly off the file.
type GGMLType uint32

const (
	GGMLTypeF32 GGMLType = iota
	GGMLTypeF16
	GGMLTypeQ4_0
	GGMLTypeQ4_1
	ggmlTypeQ4_2 // removed upstream, never produced
	ggmlTypeQ4_3 // removed upstream, never produced
	GGMLTypeQ5_0
	GGMLTypeQ5_1
	GGMLTypeQ8_0
	GGMLTypeQ8_1
	GGMLTypeQ2_K
	GGMLTypeQ3_K
	GGMLTypeQ4_K
	GGMLTypeQ5_K
	GGMLTypeQ6_K
	GGMLTypeQ8_K
	ggmlTypeIQ2_XXS
	ggmlTypeIQ2_XS
	ggmlTypeIQ3_XXS
	ggmlTypeIQ1_S
	ggmlTypeIQ4_NL
	ggmlTypeIQ3_S
	ggmlTypeIQ2_S
	ggmlTypeIQ4_XS
	GGMLTypeI8
	GGMLTypeI16
	GGMLTypeI32
	GGMLTypeI64
	GGMLTypeF64
	ggmlTypeIQ1_M
	GGMLTypeBF16
)

// blockLayout carries the two constants every block format needs for
// directory bounds-checking: elements per block and bytes per block.
// F32/F16/I* are one element per "block" by convention.
type blockLayout struct {
	blockSize int
	typeSize  int
}

var layouts = map[GGMLType]blockLayout{
	GGMLTypeF32:  {1, 4},
	GGMLTypeF16:  {1, 2},
	GGMLTypeBF16: {1, 2},
	GGMLTypeI8:   {1, 1},
	GGMLTypeI16:  {1, 2},
	GGMLTypeI32:  {1, 4},
	GGMLTypeI64:  {1, 8},
	GGMLTypeF64:  {1, 8},
	GGMLTypeQ4_0: {32, 18},
	GGMLTypeQ4_1: {32, 20},
	GGMLTypeQ5_0: {32, 22},
	GGMLTypeQ5_1: {32, 24},
	GGMLTypeQ8_0: {32, 34},
	GGMLTypeQ8_1: {32, 36},
	GGMLTypeQ2_K: {256, 84},
	GGMLTypeQ3_K: {256, 110},
	GGMLTypeQ4_K: {256, 144},
	GGMLTypeQ5_K: {256, 176},
	GGMLTypeQ6_K: {256, 210},
	GGMLTypeQ8_K: {256, 292},
}

// BlockSize returns the number of elements encoded by a single block of
// this type, or 0 if the type is not recognized.
func (t GGMLType) BlockSize() int {
	return layouts[t].blockSize
}

// TypeSize returns the number of bytes occupied by a single block of this
// type, or 0 if the type is not recognized.
func (t GGMLType) TypeSize() int {
	return layouts[t].typeSize
}

// RowSize returns the byte length of a row of ne elements of this type.
func (t GGMLType) RowSize(ne uint64) uint64 {
	bs, ts := uint64(t.BlockSize()), uint64(t.TypeSize())
	if bs == 0 {
		return 0
	}
	return ts * ne / bs
}

// Known reports whether the type has a recognized block layout at all
// (including types this engine cannot dequantize, such as
// Q4_1/Q5_0/Q5_1/Q8_1/Q8_K and BF16). The IQ* family has no layout entry
// and reports false. Container parsing only needs Known;
// forward-pass dispatch needs the narrower quant.Supported.
func (t GGMLType) Known() bool {
	_, ok := layouts[t]
	return ok
}

func (t GGMLType) String() string {
	switch t {
	case GGMLTypeF32:
		return "F32"
	case GGMLTypeF16:
		return "F16"
	case GGMLTypeQ4_0:
		return "Q4_0"
	case GGMLTypeQ4_1:
		return "Q4_1"
	case GGMLTypeQ5_0:
		return "Q5_0"
	case GGMLTypeQ5_1:
		return "Q5_1"
	case GGMLTypeQ8_0:
		return "Q8_0"
	case GGMLTypeQ8_1:
		return "Q8_1"
	case GGMLTypeQ2_K:
		return "Q2_K"
	case GGMLTypeQ3_K:
		return "Q3_K"
	case GGMLTypeQ4_K:
		return "Q4_K"
	case GGMLTypeQ5_K:
		return "Q5_K"
	case GGMLTypeQ6_K:
		return "Q6_K"
	case GGMLTypeQ8_K:
		return "Q8_K"
	case GGMLTypeBF16:
		return "BF16"
	case GGMLTypeI8, GGMLTypeI16, GGMLTypeI32, GGMLTypeI64, GGMLTypeF64:
		return fmt.Sprintf("I/F-%d", t)
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}
