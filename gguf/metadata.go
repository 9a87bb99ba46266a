package gguf

import (
	"fmt"
	"log/slog"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Metadata is the GGUF key/value store. It preserves file order (needed so
// that architecture-prefixed lookups and general.alignment resolve the same
// way regardless of how a given writer ordered its keys) via an ordered map
// rather than a plain Go map.
type Metadata struct {
	arch string
	kv   *orderedmap.OrderedMap[string, any]
}

func newMetadata() *Metadata {
	return &Metadata{kv: orderedmap.New[string, any]()}
}

func (m *Metadata) set(key string, value any) {
	if key == "general.architecture" {
		if s, ok := value.(string); ok {
			m.arch = s
		}
	}
	m.kv.Set(key, value)
}

// Len returns the number of metadata entries.
func (m *Metadata) Len() int { return m.kv.Len() }

// Architecture returns the general.architecture value, or "" if unset.
func (m *Metadata) Architecture() string { return m.arch }

// resolve applies the architecture-prefix rule from spec.md 4.A: keys not
// already namespaced under "general." or "tokenizer." are looked up under
// "<architecture>.<key>".
func (m *Metadata) resolve(key string) string {
	if strings.HasPrefix(key, "general.") || strings.HasPrefix(key, "tokenizer.") {
		return key
	}
	return m.arch + "." + key
}

func lookup[T any](m *Metadata, key string) (T, bool) {
	resolved := m.resolve(key)
	raw, ok := m.kv.Get(resolved)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		slog.Debug("gguf: metadata value has unexpected type", "key", resolved, "want", fmt.Sprintf("%T", *new(T)), "got", fmt.Sprintf("%T", raw))
	}
	return v, ok
}

// String returns a string-typed value, or def if absent/mistyped.
func (m *Metadata) String(key string, def string) string {
	if v, ok := lookup[string](m, key); ok {
		return v
	}
	return def
}

// Uint32 returns an unsigned integer metadata value, accepting any of the
// wire's integer widths, or def if absent.
func (m *Metadata) Uint32(key string, def uint32) uint32 {
	resolved := m.resolve(key)
	raw, ok := m.kv.Get(resolved)
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case uint8:
		return uint32(v)
	case uint16:
		return uint32(v)
	case uint32:
		return v
	case uint64:
		return uint32(v)
	case int8:
		return uint32(v)
	case int16:
		return uint32(v)
	case int32:
		return uint32(v)
	case int64:
		return uint32(v)
	default:
		slog.Debug("gguf: metadata value is not an integer", "key", resolved, "got", fmt.Sprintf("%T", raw))
		return def
	}
}

// Float32 returns a float32 metadata value, or def if absent/mistyped.
func (m *Metadata) Float32(key string, def float32) float32 {
	resolved := m.resolve(key)
	raw, ok := m.kv.Get(resolved)
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	default:
		slog.Debug("gguf: metadata value is not a float", "key", resolved, "got", fmt.Sprintf("%T", raw))
		return def
	}
}

// StringArray returns a []string metadata value, or nil if absent.
func (m *Metadata) StringArray(key string) []string {
	v, _ := lookup[[]string](m, key)
	return v
}

// Float32Array returns a []float32 metadata value, or nil if absent.
func (m *Metadata) Float32Array(key string) []float32 {
	v, _ := lookup[[]float32](m, key)
	return v
}

// Int32Array returns a []int32 metadata value, or nil if absent.
func (m *Metadata) Int32Array(key string) []int32 {
	v, _ := lookup[[]int32](m, key)
	return v
}
