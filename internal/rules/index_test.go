package rules

import (
	"testing"

	"netparental/internal/models"
)

func TestNextIndex(t *testing.T) {
	tests := []struct {
		name     string
		existing []int
		want     int
	}{
		{"empty", nil, 1},
		{"contiguous", []int{1, 2, 3}, 4},
		{"gap in middle", []int{1, 3, 4}, 2},
		{"gap at start", []int{2, 3}, 1},
		{"unsorted", []int{4, 1, 3}, 2},
		{"single", []int{1}, 2},
		{"sparse", []int{5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextIndex(tt.existing); got != tt.want {
				t.Errorf("NextIndex(%v) = %d, want %d", tt.existing, got, tt.want)
			}
		})
	}
}

func TestNextIndex_DoesNotReorderInput(t *testing.T) {
	in := []int{3, 1}
	NextIndex(in)
	if in[0] != 3 || in[1] != 1 {
		t.Errorf("input was modified: %v", in)
	}
}

func TestIndexesOf(t *testing.T) {
	got := IndexesOf([]models.Rule{{Index: 1}, {Index: 3}})
	if NextIndex(got) != 2 {
		t.Errorf("NextIndex(%v) != 2", got)
	}
}
