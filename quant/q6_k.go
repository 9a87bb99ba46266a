package quant

// Q6_KBlock is the 210-byte on-disk layout:
//   ql:     128 bytes, low 4 bits of each 6-bit quant
//   qh:     64 bytes, high 2 bits of each 6-bit quant
//   scales: 16 signed sub-block scales
//   d:      f16 super-block scale
const (
	Q6_KBlockSize = 256
	Q6_KTypeSize  = 210
)

func dequantQ6_KBlock(block []byte, out []float32) {
	ql := block[0:128]
	qh := block[128:192]
	scales := block[192:208]
	d := halfToFloat32(block[208:210])

	for half := 0; half < 2; half++ {
		qlP := ql[half*64:]
		qhP := qh[half*32:]
		scP := scales[half*8:]
		outOff := half * 128

		for l := 0; l < 32; l++ {
			is := l / 16

			q1 := int32(qlP[l]&0x0F) | int32(qhP[l]>>0&3)<<4
			q2 := int32(qlP[l+32]&0x0F) | int32(qhP[l]>>2&3)<<4
			q3 := int32(qlP[l]>>4) | int32(qhP[l]>>4&3)<<4
			q4 := int32(qlP[l+32]>>4) | int32(qhP[l]>>6&3)<<4

			out[outOff+l+0] = d * float32(int8(scP[is+0])) * float32(q1-32)
			out[outOff+l+32] = d * float32(int8(scP[is+2])) * float32(q2-32)
			out[outOff+l+64] = d * float32(int8(scP[is+4])) * float32(q3-32)
			out[outOff+l+96] = d * float32(int8(scP[is+6])) * float32(q4-32)
		}
	}
}
