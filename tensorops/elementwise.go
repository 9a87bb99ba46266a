package tensorops

import "fmt"

// AddInto writes out = a + b. All three slices must share length.
func AddInto(out, a, b []float32) error {
	if len(a) != len(b) || len(out) != len(a) {
		return fmt.Errorf("tensorops: add size mismatch: out=%d a=%d b=%d", len(out), len(a), len(b))
	}
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return nil
}

// MulInto writes out = a * b elementwise. All three slices must share length.
func MulInto(out, a, b []float32) error {
	if len(a) != len(b) || len(out) != len(a) {
		return fmt.Errorf("tensorops: mul size mismatch: out=%d a=%d b=%d", len(out), len(a), len(b))
	}
	for i := range out {
		out[i] = a[i] * b[i]
	}
	return nil
}

// DotProduct returns the inner product of a and b.
func DotProduct(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("tensorops: dot size mismatch: a=%d b=%d", len(a), len(b))
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}
