package gguf

import "testing"

func TestBlockLayouts(t *testing.T) {
	tests := []struct {
		typ                GGMLType
		blockSize, typSize int
	}{
		{GGMLTypeF32, 1, 4},
		{GGMLTypeF16, 1, 2},
		{GGMLTypeQ4_0, 32, 18},
		{GGMLTypeQ8_0, 32, 34},
		{GGMLTypeQ2_K, 256, 84},
		{GGMLTypeQ3_K, 256, 110},
		{GGMLTypeQ4_K, 256, 144},
		{GGMLTypeQ5_K, 256, 176},
		{GGMLTypeQ6_K, 256, 210},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.BlockSize(); got != tt.blockSize {
				t.Errorf("BlockSize() = %d, want %d", got, tt.blockSize)
			}
			if got := tt.typ.TypeSize(); got != tt.typSize {
				t.Errorf("TypeSize() = %d, want %d", got, tt.typSize)
			}
			if !tt.typ.Known() {
				t.Error("Known() = false, want true")
			}
		})
	}
}

func TestRowSize(t *testing.T) {
	if got := GGMLTypeQ4_0.RowSize(64); got != 36 {
		t.Errorf("RowSize(64) = %d, want 36", got)
	}
	if got := GGMLTypeF32.RowSize(10); got != 40 {
		t.Errorf("RowSize(10) = %d, want 40", got)
	}
}

func TestUnknownTypeNotKnown(t *testing.T) {
	var t2 GGMLType = 9999
	if t2.Known() {
		t.Error("Known() = true for unrecognized type tag, want false")
	}
}
