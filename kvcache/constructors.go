// Package kvcache implements the dense key/value arena a single generation
// owns for the lifetime of a sequence. Unlike a tensor-graph-backed cache,
// this is plain []float32 storage addressed directly by layer and
// position, sized once by New for max_seq_len.
package kvcache

import "fmt"

// Cache holds one key arena and one value arena covering all layers, each
// shaped [n_layers * max_seq_len * kv_dim] in row-major (layer, pos, d) order.
type Cache struct {
	nLayers    int
	maxSeqLen  int
	kvDim      int
	keyCache   []float32
	valueCache []float32
	pos        int
}

// New allocates a cache for nLayers layers, each holding up to maxSeqLen
// positions of kvDim-wide key/value vectors.
func New(nLayers, maxSeqLen, kvDim int) (*Cache, error) {
	if nLayers <= 0 || maxSeqLen <= 0 || kvDim <= 0 {
		return nil, fmt.Errorf("kvcache: invalid dimensions: layers=%d maxSeqLen=%d kvDim=%d", nLayers, maxSeqLen, kvDim)
	}
	size := nLayers * maxSeqLen * kvDim
	return &Cache{
		nLayers:    nLayers,
		maxSeqLen:  maxSeqLen,
		kvDim:      kvDim,
		keyCache:   make([]float32, size),
		valueCache: make([]float32, size),
	}, nil
}

// Reset zeros both arenas and rewinds the position counter to 0.
func (c *Cache) Reset() {
	for i := range c.keyCache {
		c.keyCache[i] = 0
	}
	for i := range c.valueCache {
		c.valueCache[i] = 0
	}
	c.pos = 0
}

// Position returns the next position a generation step will write to.
func (c *Cache) Position() int {
	return c.pos
}

// Advance moves the position counter forward by one, after a step has
// written its key/value vectors at the current position.
func (c *Cache) Advance() {
	c.pos++
}

// MaxSeqLen returns the capacity the cache was allocated with.
func (c *Cache) MaxSeqLen() int {
	return c.maxSeqLen
}

// KVDim returns the per-position vector width.
func (c *Cache) KVDim() int {
	return c.kvDim
}
