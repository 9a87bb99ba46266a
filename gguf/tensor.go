package gguf

// TensorInfo is one entry of the GGUF tensor directory: a name, its block
// format, its shape (ordered, slowest-varying dimension last as GGUF writes
// it), and its byte offset relative to the start of the data section.
type TensorInfo struct {
	Name   string
	Type   GGMLType
	Shape  []uint64
	Offset uint64
}

// NumElements returns the total element count across all dimensions.
func (t TensorInfo) NumElements() uint64 {
	n := uint64(1)
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// NumBytes returns the tensor's byte length as stored on disk.
func (t TensorInfo) NumBytes() uint64 {
	return t.Type.RowSize(t.NumElements())
}
