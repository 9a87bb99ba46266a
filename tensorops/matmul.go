// Package tensorops implements the dense float32 tensor primitives the
// forward pass is built from: matmul, norms, activations and elementwise
// arithmetic, all operating on already-dequantized buffers.
package tensorops

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minRowsForFanOut below this many output rows, row-parallel fan-out isn't
// worth its goroutine overhead and MatMul runs the range inline.
const minRowsForFanOut = 64

// MatMul computes out[rows] = w[rows, cols] @ x[cols], fanning the row
// range out across workers for large weight matrices. It synchronizes
// fully before returning: every goroutine has written its rows by the
// time MatMul's caller sees out.
func MatMul(out, w, x []float32, rows, cols int) error {
	if len(w) < rows*cols {
		return fmt.Errorf("tensorops: matmul weight too small: have %d, need %d", len(w), rows*cols)
	}
	if len(x) < cols {
		return fmt.Errorf("tensorops: matmul input too small: have %d, need %d", len(x), cols)
	}
	if len(out) < rows {
		return fmt.Errorf("tensorops: matmul output too small: have %d, need %d", len(out), rows)
	}

	if rows < minRowsForFanOut {
		matMulRange(out, w, x, 0, rows, cols)
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	chunk := (rows + workers - 1) / workers

	g, _ := errgroup.WithContext(context.Background())
	for start := 0; start < rows; start += chunk {
		end := start + chunk
		if end > rows {
			end = rows
		}
		s, e := start, end
		g.Go(func() error {
			matMulRange(out, w, x, s, e, cols)
			return nil
		})
	}
	return g.Wait()
}

func matMulRange(out, w, x []float32, start, end, cols int) {
	for i := start; i < end; i++ {
		var sum float32
		off := i * cols
		for j := 0; j < cols; j++ {
			sum += w[off+j] * x[j]
		}
		out[i] = sum
	}
}
