// Package gguf parses the GGUF container format: a 4-byte magic, a version,
// a metadata key/value section, a tensor directory, and an aligned data
// section. Open reads everything up to (but not including) tensor payload
// bytes; tensor payloads are read separately through a memory mapping by
// package mmapstore, keyed by the offsets this package resolves.
package gguf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

var magic = [4]byte{'G', 'G', 'U', 'F'}

// File is a parsed GGUF header: metadata and the tensor directory, with
// byte offsets resolved against the data section.
type File struct {
	Version uint32

	meta    *Metadata
	tensors []TensorInfo
	byName  map[string]int

	dataOffset int64
}

// Open parses the GGUF header at path. The returned File holds no open
// file handle; pair it with mmapstore.Open(path) to read tensor payloads.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := &countingReader{r: f}
	return decode(cr, bufio.NewReaderSize(cr, 32<<10))
}

// countingReader tracks the number of bytes pulled from the underlying
// reader, independent of how much of that a downstream bufio.Reader has
// actually handed out. Logical stream position is count - buffered bytes
// still sitting in the bufio.Reader.
type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}

func decode(cr *countingReader, r *bufio.Reader) (*File, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %w", ErrBadContainer, err)
	}
	if !bytes.Equal(gotMagic[:], magic[:]) {
		return nil, fmt.Errorf("%w: magic %q, want %q", ErrBadContainer, gotMagic, magic)
	}

	version, err := read[uint32](r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading version: %w", ErrBadContainer, err)
	}
	if version < 2 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadContainer, version)
	}

	tensorCount, err := read[uint64](r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading tensor count: %w", ErrBadContainer, err)
	}

	kvCount, err := read[uint64](r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading metadata count: %w", ErrBadContainer, err)
	}

	meta := newMetadata()
	for i := uint64(0); i < kvCount; i++ {
		key, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading metadata key %d: %w", ErrBadContainer, i, err)
		}
		typeTag, err := read[uint32](r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading metadata type for %q: %w", ErrBadContainer, key, err)
		}
		value, err := readValue(r, typeTag)
		if err != nil {
			return nil, fmt.Errorf("%w: reading metadata value for %q: %w", ErrBadContainer, key, err)
		}
		meta.set(key, value)
	}

	tensors := make([]TensorInfo, 0, tensorCount)
	byName := make(map[string]int, tensorCount)
	var headerEnd int64
	for i := uint64(0); i < tensorCount; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading tensor name %d: %w", ErrBadContainer, i, err)
		}

		nDims, err := read[uint32](r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading tensor dim count for %q: %w", ErrBadContainer, name, err)
		}

		shape := make([]uint64, nDims)
		for d := range shape {
			shape[d], err = read[uint64](r)
			if err != nil {
				return nil, fmt.Errorf("%w: reading tensor shape for %q: %w", ErrBadContainer, name, err)
			}
		}

		typeTag, err := read[uint32](r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading tensor type for %q: %w", ErrBadContainer, name, err)
		}

		offset, err := read[uint64](r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading tensor offset for %q: %w", ErrBadContainer, name, err)
		}

		byName[name] = len(tensors)
		tensors = append(tensors, TensorInfo{
			Name:   name,
			Type:   GGMLType(typeTag),
			Shape:  shape,
			Offset: offset,
		})
	}

	// headerEnd is the stream position immediately after the tensor
	// directory, before alignment padding.
	headerEnd = cr.count - int64(r.Buffered())

	alignment := int64(meta.Uint32("general.alignment", 32))
	if alignment <= 0 {
		alignment = 32
	}
	dataOffset := headerEnd
	if rem := dataOffset % alignment; rem != 0 {
		dataOffset += alignment - rem
	}

	return &File{
		Version:    version,
		meta:       meta,
		tensors:    tensors,
		byName:     byName,
		dataOffset: dataOffset,
	}, nil
}

// DataOffset is the absolute byte offset of the tensor data section within
// the file, after alignment padding.
func (f *File) DataOffset() int64 { return f.dataOffset }

// Metadata returns the parsed key/value store.
func (f *File) Metadata() *Metadata { return f.meta }

// Tensors returns the tensor directory in file order.
func (f *File) Tensors() []TensorInfo { return f.tensors }

// Tensor looks up a tensor by exact name.
func (f *File) Tensor(name string) (TensorInfo, bool) {
	i, ok := f.byName[name]
	if !ok {
		return TensorInfo{}, false
	}
	return f.tensors[i], true
}
