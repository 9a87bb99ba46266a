package gguf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// value type tags as they appear on the wire, ahead of every scalar,
// string, or array metadata entry.
const (
	wireUint8 uint32 = iota
	wireInt8
	wireUint16
	wireInt16
	wireUint32
	wireInt32
	wireFloat32
	wireBool
	wireString
	wireArray
	wireUint64
	wireInt64
	wireFloat64
)

// read decodes a single fixed-width little-endian value from r.
func read[T any](r io.Reader) (t T, err error) {
	err = binary.Read(r, binary.LittleEndian, &t)
	return t, err
}

// readString decodes a u64-length-prefixed UTF-8 string.
func readString(r io.Reader) (string, error) {
	n, err := read[uint64](r)
	if err != nil {
		return "", fmt.Errorf("%w: reading string length: %w", ErrBadContainer, err)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: reading string body: %w", ErrBadContainer, err)
	}

	return string(buf), nil
}

// readValue decodes one metadata value whose wire type tag is t.
func readValue(r io.Reader, t uint32) (any, error) {
	switch t {
	case wireUint8:
		return read[uint8](r)
	case wireInt8:
		return read[int8](r)
	case wireUint16:
		return read[uint16](r)
	case wireInt16:
		return read[int16](r)
	case wireUint32:
		return read[uint32](r)
	case wireInt32:
		return read[int32](r)
	case wireUint64:
		return read[uint64](r)
	case wireInt64:
		return read[int64](r)
	case wireFloat32:
		return read[float32](r)
	case wireFloat64:
		return read[float64](r)
	case wireBool:
		v, err := read[uint8](r)
		return v != 0, err
	case wireString:
		return readString(r)
	case wireArray:
		return readArray(r)
	default:
		return nil, fmt.Errorf("%w: unknown metadata type tag %d", ErrBadContainer, t)
	}
}

// readArray decodes an element-type-tagged, u64-length-prefixed array.
func readArray(r io.Reader) (any, error) {
	elemType, err := read[uint32](r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading array element type: %w", ErrBadContainer, err)
	}

	n, err := read[uint64](r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading array length: %w", ErrBadContainer, err)
	}

	switch elemType {
	case wireUint8:
		return readArrayData[uint8](r, n)
	case wireInt8:
		return readArrayData[int8](r, n)
	case wireUint16:
		return readArrayData[uint16](r, n)
	case wireInt16:
		return readArrayData[int16](r, n)
	case wireUint32:
		return readArrayData[uint32](r, n)
	case wireInt32:
		return readArrayData[int32](r, n)
	case wireUint64:
		return readArrayData[uint64](r, n)
	case wireInt64:
		return readArrayData[int64](r, n)
	case wireFloat32:
		return readArrayData[float32](r, n)
	case wireFloat64:
		return readArrayData[float64](r, n)
	case wireBool:
		return readBoolArrayData(r, n)
	case wireString:
		return readStringArrayData(r, n)
	default:
		return nil, fmt.Errorf("%w: unknown array element type tag %d", ErrBadContainer, elemType)
	}
}

func readArrayData[T any](r io.Reader, n uint64) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := read[T](r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading array element %d: %w", ErrBadContainer, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func readBoolArrayData(r io.Reader, n uint64) ([]bool, error) {
	out := make([]bool, n)
	for i := range out {
		v, err := read[uint8](r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading array element %d: %w", ErrBadContainer, i, err)
		}
		out[i] = v != 0
	}
	return out, nil
}

func readStringArrayData(r io.Reader, n uint64) ([]string, error) {
	out := make([]string, n)
	for i := range out {
		v, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading array element %d: %w", ErrBadContainer, i, err)
		}
		out[i] = v
	}
	return out, nil
}
