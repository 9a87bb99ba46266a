package quant

import "github.com/d4l3k/go-bfloat16"

// DumpBF16 decodes a raw bfloat16 byte slice to float32. It exists for
// tensor inspection tooling; the forward pass never encounters BF16
// weights in practice and Supported reports it as unsupported.
func DumpBF16(data []byte) []float32 {
	return bfloat16.DecodeFloat32(data)
}
