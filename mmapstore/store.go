// Package mmapstore memory-maps a whole GGUF file read-only and resolves
// tensor directory entries to byte slices of its data section that borrow
// directly from the mapping — weights are never copied onto the Go
// heap. The mapping's lifetime is tied to the Store; callers must not use
// slices handed out by Data after calling Close.
package mmapstore

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/localllama/engine/gguf"
)

// ErrBadOffset is returned when a tensor's declared range would read past
// the end of the mapping.
var ErrBadOffset = errors.New("tensor offset out of bounds")

// Store owns one read-only memory mapping of a GGUF file.
type Store struct {
	file       *os.File
	data       []byte // the whole file, mmap'd
	dataOffset int64  // start of the tensor data section within data
}

// Open memory-maps path for read-only access. dataOffset is the byte
// offset of the tensor data section, as resolved by gguf.File.DataOffset.
func Open(path string, dataOffset int64) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: empty file", ErrBadOffset)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: %w", err)
	}

	return &Store{file: f, data: data, dataOffset: dataOffset}, nil
}

// Close unmaps the file and closes its handle. Byte slices previously
// returned by Data become invalid.
func (s *Store) Close() error {
	err := unix.Munmap(s.data)
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Data returns the byte slice for a tensor directory entry, bounds-checked
// against the mapping. The returned slice aliases the mapping directly.
func (s *Store) Data(t gguf.TensorInfo) ([]byte, error) {
	start := s.dataOffset + int64(t.Offset)
	length := int64(t.NumBytes())

	if start < 0 || length < 0 || start > int64(len(s.data)) || start+length > int64(len(s.data)) {
		return nil, fmt.Errorf("%w: tensor %q at [%d,%d) exceeds mapping of length %d",
			ErrBadOffset, t.Name, start, start+length, len(s.data))
	}

	return s.data[start : start+length : start+length], nil
}

// Len returns the total size of the mapped file.
func (s *Store) Len() int { return len(s.data) }
