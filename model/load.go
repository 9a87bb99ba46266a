package model

import (
	"github.com/localllama/engine/gguf"
	"github.com/localllama/engine/mmapstore"
	"github.com/localllama/engine/quant"
)

// Model ties together a parsed GGUF header, its memory-mapped tensor
// payloads, derived hyperparameters, and the resolved weight index. It is
// the unit Load returns and Forward operates on.
type Model struct {
	file    *gguf.File
	store   *mmapstore.Store
	Params  *Params
	Weights *WeightIndex
}

// Load opens path as a GGUF file, memory-maps its tensor data, and
// resolves the weight index for the architecture it declares.
func Load(path string) (*Model, error) {
	file, err := gguf.Open(path)
	if err != nil {
		return nil, err
	}

	store, err := mmapstore.Open(path, file.DataOffset())
	if err != nil {
		return nil, err
	}

	params, err := NewParams(file.Metadata())
	if err != nil {
		store.Close()
		return nil, err
	}

	weights, err := NewWeightIndex(file, params)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Model{file: file, store: store, Params: params, Weights: weights}, nil
}

// Close releases the underlying memory mapping.
func (m *Model) Close() error {
	return m.store.Close()
}

// Metadata exposes the underlying GGUF key/value store, e.g. for the
// tokenizer to read vocabulary arrays from.
func (m *Model) Metadata() *gguf.Metadata {
	return m.file.Metadata()
}

// dequantFull dequantizes an entire tensor's payload into a freshly
// allocated float32 slice.
func (m *Model) dequantFull(t gguf.TensorInfo) ([]float32, error) {
	data, err := m.store.Data(t)
	if err != nil {
		return nil, err
	}
	n := int(t.NumElements())
	out := make([]float32, n)
	if !quant.Supported(t.Type) {
		return nil, UnsupportedQuant(t.Name, t.Type)
	}
	if err := quant.Dequantize(data, out, n, t.Type); err != nil {
		return nil, err
	}
	return out, nil
}

// normWeight returns the dequantized norm scale for a layer tensor, or an
// all-ones vector of length dim when the tensor is absent.
func (m *Model) normWeight(t gguf.TensorInfo, has bool, dim int) ([]float32, error) {
	if !has {
		ones := make([]float32, dim)
		for i := range ones {
			ones[i] = 1
		}
		return ones, nil
	}
	return m.dequantFull(t)
}
