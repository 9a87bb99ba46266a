package model

import (
	"errors"
	"fmt"

	"github.com/localllama/engine/gguf"
	"github.com/localllama/engine/quant"
)

// ErrUnsupportedArch is returned when the GGUF architecture metadata does
// not identify a LLaMA-family decoder-only transformer.
var ErrUnsupportedArch = errors.New("unsupported architecture")

// ErrShapeMismatch is returned when a derived hyperparameter violates one
// of the model's structural invariants (e.g. dim % n_heads != 0).
var ErrShapeMismatch = errors.New("shape mismatch")

// ErrMissingWeight is the sentinel wrapped by MissingWeight.
var ErrMissingWeight = errors.New("missing required weight")

// MissingWeightError names a required tensor that the tensor directory
// does not contain.
type MissingWeightError struct {
	Name string
}

func (e *MissingWeightError) Error() string {
	return fmt.Sprintf("missing required weight %q", e.Name)
}

func (e *MissingWeightError) Unwrap() error { return ErrMissingWeight }

// MissingWeight constructs a MissingWeightError for name.
func MissingWeight(name string) error {
	return &MissingWeightError{Name: name}
}

// UnsupportedQuantError names a tensor whose block format this engine
// cannot dequantize.
type UnsupportedQuantError struct {
	Name string
	Type gguf.GGMLType
}

func (e *UnsupportedQuantError) Error() string {
	return fmt.Sprintf("tensor %q uses unsupported quant type %s", e.Name, e.Type)
}

func (e *UnsupportedQuantError) Unwrap() error { return quant.ErrUnsupportedQuant }

// UnsupportedQuant constructs an UnsupportedQuantError for a tensor.
func UnsupportedQuant(name string, t gguf.GGMLType) error {
	return &UnsupportedQuantError{Name: name, Type: t}
}
