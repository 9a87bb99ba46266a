package quant

// Q3_KBlock is the 110-byte on-disk layout:
//   hmask:         32 bytes, one high bit per element (256 bits)
//   qs:            64 bytes, four 2-bit quants per byte (low bits first)
//   scales_packed: 12 bytes, sixteen 6-bit sub-block scales
//   d:             f16 super-block scale
//
// The sixteen 6-bit scales are packed as: the low 4 bits of scale[2b] and
// scale[2b+1] live in the low/high nibble of scales_packed[b] for
// b in [0,8); the high 2 bits of all sixteen scales live in the four 2-bit
// fields of scales_packed[8+c] for c in [0,4). Each scale is then biased by
// subtracting 32, per spec.
const (
	Q3_KBlockSize = 256
	Q3_KTypeSize  = 110
)

func dequantQ3_KBlock(block []byte, out []float32) {
	hmask := block[0:32]
	qs := block[32:96]
	scalesPacked := block[96:108]
	d := halfToFloat32(block[108:110])

	var scales [16]int8
	for b := 0; b < 8; b++ {
		lo := scalesPacked[b]
		scales[2*b] = int8(lo & 0x0F)
		scales[2*b+1] = int8(lo >> 4)
	}
	for c := 0; c < 4; c++ {
		hi := scalesPacked[8+c]
		for k := 0; k < 4; k++ {
			bits := int8((hi >> uint(k*2)) & 0x3)
			scales[4*c+k] |= bits << 4
		}
	}
	for i := range scales {
		scales[i] -= 32
	}

	for s := 0; s < 16; s++ {
		scale := d * float32(scales[s])
		for j := 0; j < 16; j++ {
			elem := s*16 + j
			byteIdx := elem / 4
			shift := uint((elem % 4) * 2)
			lo2 := (qs[byteIdx] >> shift) & 0x3

			hiByte := elem / 8
			hiShift := uint(elem % 8)
			hi1 := (hmask[hiByte] >> hiShift) & 0x1

			q := int32(lo2) | int32(hi1)<<2
			out[elem] = scale * float32(q-4)
		}
	}
}
