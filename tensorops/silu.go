package tensorops

import "math"

// SiLU is the x * sigmoid(x) activation used in the SwiGLU feed-forward
// block.
func SiLU(x float32) float32 {
	return x / (1.0 + float32(math.Exp(float64(-x))))
}

// SiLUInPlace applies SiLU to every element of x.
func SiLUInPlace(x []float32) {
	for i, v := range x {
		x[i] = SiLU(v)
	}
}
