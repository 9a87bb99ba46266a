package kvcache

import "fmt"

// ErrOutOfRange is returned when a layer or position falls outside the
// cache's allocated bounds.
var ErrOutOfRange = fmt.Errorf("kvcache: layer or position out of range")

func (c *Cache) index(layer, pos int) (int, error) {
	if layer < 0 || layer >= c.nLayers || pos < 0 || pos >= c.maxSeqLen {
		return 0, ErrOutOfRange
	}
	return (layer*c.maxSeqLen + pos) * c.kvDim, nil
}

// KeyAtMut returns a mutable slice of length kv_dim for the key vector at
// (layer, pos), for the forward pass to write into.
func (c *Cache) KeyAtMut(layer, pos int) ([]float32, error) {
	off, err := c.index(layer, pos)
	if err != nil {
		return nil, err
	}
	return c.keyCache[off : off+c.kvDim], nil
}

// ValueAtMut returns a mutable slice of length kv_dim for the value vector
// at (layer, pos).
func (c *Cache) ValueAtMut(layer, pos int) ([]float32, error) {
	off, err := c.index(layer, pos)
	if err != nil {
		return nil, err
	}
	return c.valueCache[off : off+c.kvDim], nil
}

// Keys returns the prefix [0, seqLen) of key vectors at layer, flattened as
// seqLen*kv_dim contiguous float32s, for readout during attention.
func (c *Cache) Keys(layer, seqLen int) ([]float32, error) {
	if layer < 0 || layer >= c.nLayers || seqLen < 0 || seqLen > c.maxSeqLen {
		return nil, ErrOutOfRange
	}
	start := layer * c.maxSeqLen * c.kvDim
	return c.keyCache[start : start+seqLen*c.kvDim], nil
}

// Values returns the prefix [0, seqLen) of value vectors at layer, mirroring
// Keys.
func (c *Cache) Values(layer, seqLen int) ([]float32, error) {
	if layer < 0 || layer >= c.nLayers || seqLen < 0 || seqLen > c.maxSeqLen {
		return nil, ErrOutOfRange
	}
	start := layer * c.maxSeqLen * c.kvDim
	return c.valueCache[start : start+seqLen*c.kvDim], nil
}
