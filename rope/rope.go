// Package rope implements rotary position embedding on query/key vectors.
package rope

import "math"

// ApplyHeads rotates x in place, treating it as nHeads consecutive heads of
// length headDim, at absolute position pos. It follows the
// interleaved-halves pairing convention: within each head, element i pairs
// with element i+half (half = headDim/2), not its adjacent neighbor.
func ApplyHeads(x []float32, nHeads, headDim int, pos int, theta float32) {
	half := headDim / 2
	for h := 0; h < nHeads; h++ {
		head := x[h*headDim : (h+1)*headDim]
		for i := 0; i < half; i++ {
			freq := float32(1.0 / math.Pow(float64(theta), float64(2*i)/float64(headDim)))
			angle := float32(pos) * freq
			cos := float32(math.Cos(float64(angle)))
			sin := float32(math.Sin(float64(angle)))

			x0 := head[i]
			x1 := head[i+half]
			head[i] = x0*cos - x1*sin
			head[i+half] = x0*sin + x1*cos
		}
	}
}
