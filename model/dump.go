package model

import (
	"fmt"

	"github.com/localllama/engine/gguf"
	"github.com/localllama/engine/quant"
)

// TensorDump is a read-only inspection of one tensor's directory entry and
// a preview of its decoded values, for diagnosing UnsupportedQuant and
// similar load-time failures without running the forward pass.
type TensorDump struct {
	Name        string
	Type        gguf.GGMLType
	Shape       []uint64
	Description quant.Description
	Preview     []float32
}

// DumpTensor inspects name without requiring it to participate in a
// forward pass. BF16 tensors, which Dequantize rejects, are decoded via
// quant.DumpBF16 instead so the directory entry is still readable.
func (m *Model) DumpTensor(name string, previewLen int) (TensorDump, error) {
	t, ok := m.file.Tensor(name)
	if !ok {
		return TensorDump{}, MissingWeight(name)
	}

	dump := TensorDump{
		Name:        t.Name,
		Type:        t.Type,
		Shape:       t.Shape,
		Description: quant.Describe(t.Type),
	}

	data, err := m.store.Data(t)
	if err != nil {
		return TensorDump{}, err
	}

	n := int(t.NumElements())
	if previewLen > 0 && previewLen < n {
		n = previewLen
	}

	switch {
	case t.Type == gguf.GGMLTypeBF16:
		decoded := quant.DumpBF16(data)
		if n > len(decoded) {
			n = len(decoded)
		}
		dump.Preview = append([]float32(nil), decoded[:n]...)
		return dump, nil
	case quant.Supported(t.Type):
		dump.Preview = make([]float32, n)
		if err := quant.Dequantize(data, dump.Preview, n, t.Type); err != nil {
			return TensorDump{}, err
		}
		return dump, nil
	default:
		return TensorDump{}, fmt.Errorf("%w: %s has no preview path", UnsupportedQuant(t.Name, t.Type), t.Type)
	}
}
