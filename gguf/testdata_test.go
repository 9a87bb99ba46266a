package gguf

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// kvEntry is one metadata key/value pair to be serialized by buildGGUF.
type kvEntry struct {
	key   string
	tag   uint32
	value any
}

// buildGGUF writes a minimal, hand-assembled GGUF v3 file to a temp path
// and returns that path. It exists purely to exercise File.Open against
// known bytes; it is not a general-purpose encoder.
func buildGGUF(t *testing.T, kvs []kvEntry, tensors []TensorInfo, tensorData []byte) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("GGUF")
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	binary.Write(&buf, binary.LittleEndian, uint64(len(tensors)))
	binary.Write(&buf, binary.LittleEndian, uint64(len(kvs)))

	writeStr := func(s string) {
		binary.Write(&buf, binary.LittleEndian, uint64(len(s)))
		buf.WriteString(s)
	}

	for _, kv := range kvs {
		writeStr(kv.key)
		binary.Write(&buf, binary.LittleEndian, kv.tag)
		switch kv.tag {
		case wireUint32:
			binary.Write(&buf, binary.LittleEndian, kv.value.(uint32))
		case wireFloat32:
			binary.Write(&buf, binary.LittleEndian, kv.value.(float32))
		case wireString:
			writeStr(kv.value.(string))
		case wireArray:
			arr := kv.value.([]float32)
			binary.Write(&buf, binary.LittleEndian, wireFloat32)
			binary.Write(&buf, binary.LittleEndian, uint64(len(arr)))
			for _, v := range arr {
				binary.Write(&buf, binary.LittleEndian, v)
			}
		default:
			t.Fatalf("buildGGUF: unsupported tag %d in test helper", kv.tag)
		}
	}

	for _, tn := range tensors {
		writeStr(tn.Name)
		binary.Write(&buf, binary.LittleEndian, uint32(len(tn.Shape)))
		for _, d := range tn.Shape {
			binary.Write(&buf, binary.LittleEndian, d)
		}
		binary.Write(&buf, binary.LittleEndian, uint32(tn.Type))
		binary.Write(&buf, binary.LittleEndian, tn.Offset)
	}

	headerLen := buf.Len()
	alignment := 32
	pad := (alignment - headerLen%alignment) % alignment
	buf.Write(make([]byte, pad))
	buf.Write(tensorData)

	path := filepath.Join(t.TempDir(), "model.gguf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}
