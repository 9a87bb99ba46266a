package quant

import (
	"encoding/binary"

	"github.com/x448/float16"
)

func dequantF16(data []byte, out []float32) {
	for i := range out {
		bits := binary.LittleEndian.Uint16(data[i*2:])
		out[i] = float16.Frombits(bits).Float32()
	}
}

// halfToFloat32 decodes a single little-endian IEEE-754 half stored in a
// quantized block's scale/min fields (Q4_0's d, the K-quants' d and dmin).
func halfToFloat32(b []byte) float32 {
	return float16.Frombits(binary.LittleEndian.Uint16(b)).Float32()
}
