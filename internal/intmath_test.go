package internal

import "testing"

func TestIlog2Ceil(t *testing.T) {
	tests := []struct {
		n    uint32
		want uint32
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{7, 3},
		{8, 4},
		{255, 8},
		{256, 9},
		{1<<31 - 1, 31},
	}
	for _, tt := range tests {
		if got := Ilog2Ceil(tt.n); got != tt.want {
			t.Errorf("Ilog2Ceil(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
