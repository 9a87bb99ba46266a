package quant

import (
	"encoding/binary"
	"math"
)

func dequantF32(data []byte, out []float32) {
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
}
