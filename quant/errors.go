package quant

import "errors"

// ErrUnsupportedQuant is returned by Dequantize for any block format
// outside the closed set this engine can compute with. It is never
// papered over with a zero-fill.
var ErrUnsupportedQuant = errors.New("unsupported quantization type")
