package quant

// Q5_KBlock is the 176-byte on-disk layout:
//   d:             f16 super-block scale
//   dmin:          f16 super-block min
//   scales_packed: 12 bytes, eight 6-bit (scale, min) pairs (shared with Q4_K)
//   qh:            32 bytes, one high bit per element (256 bits)
//   qs:            128 bytes, two 4-bit low nibbles per byte
//
// Each 5-bit quant is lo4 | (hi1 << 4): lo4 comes from the same qs nibble
// indexing as Q4_K, hi1 is bit (s*32+j) of the high-bit plane.
const (
	Q5_KBlockSize = 256
	Q5_KTypeSize  = 176
)

func dequantQ5_KBlock(block []byte, out []float32) {
	d := halfToFloat32(block[0:2])
	dmin := halfToFloat32(block[2:4])
	scales, mins := unpackScalesMins6Bit(block[4:16])
	qh := block[16:48]
	qs := block[48:176]

	for s := 0; s < 8; s++ {
		scale := d * float32(scales[s])
		min := dmin * float32(mins[s])
		for j := 0; j < 32; j++ {
			elem := s*32 + j

			b := qs[elem/2]
			var lo4 uint8
			if j%2 == 0 {
				lo4 = b & 0x0F
			} else {
				lo4 = b >> 4
			}

			hiByte := elem / 8
			hiShift := uint(elem % 8)
			hi1 := (qh[hiByte] >> hiShift) & 0x1

			q := uint32(lo4) | uint32(hi1)<<4
			out[elem] = scale*float32(q) - min
		}
	}
}
