package quant

// Q4_KBlock is the 144-byte on-disk layout:
//   d:             f16 super-block scale
//   dmin:          f16 super-block min
//   scales_packed: 12 bytes, eight 6-bit (scale, min) pairs
//   qs:            128 bytes, two 4-bit quants per byte
//
// Scale/min unpacking follows the canonical ggml bit layout (see spec):
// for i in [0,4): scales[i] = raw[2i]&0x3F, mins[i] = raw[2i+1]&0x3F,
// scales[i+4] = (raw[2i]>>6) | ((raw[8+i]&0x0F)<<2),
// mins[i+4]   = (raw[2i+1]>>6) | ((raw[8+i]>>4)<<2).
const (
	Q4_KBlockSize = 256
	Q4_KTypeSize  = 144
)

// unpackScalesMins6Bit decodes the eight (scale, min) 6-bit pairs shared by
// Q4_K and Q5_K from their common 12-byte packed representation.
func unpackScalesMins6Bit(raw []byte) (scales, mins [8]uint8) {
	for i := 0; i < 4; i++ {
		scales[i] = raw[2*i] & 0x3F
		mins[i] = raw[2*i+1] & 0x3F
		scales[i+4] = (raw[2*i] >> 6) | ((raw[8+i] & 0x0F) << 2)
		mins[i+4] = (raw[2*i+1] >> 6) | ((raw[8+i] >> 4) << 2)
	}
	return scales, mins
}

func dequantQ4_KBlock(block []byte, out []float32) {
	d := halfToFloat32(block[0:2])
	dmin := halfToFloat32(block[2:4])
	scales, mins := unpackScalesMins6Bit(block[4:16])
	qs := block[16:144]

	for s := 0; s < 8; s++ {
		scale := d * float32(scales[s])
		min := dmin * float32(mins[s])
		for j := 0; j < 32; j++ {
			b := qs[s*16+j/2]
			var q uint8
			if j%2 == 0 {
				q = b & 0x0F
			} else {
				q = b >> 4
			}
			out[s*32+j] = scale*float32(q) - min
		}
	}
}
