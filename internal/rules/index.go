package rules

import (
	"sort"

	"netparental/internal/models"
)

// NextIndex returns the lowest free rule index, reusing gaps left by
// removed rules before growing past the highest one.
func NextIndex(existing []int) int {
	if len(existing) == 0 {
		return 1
	}

	sorted := append([]int(nil), existing...)
	sort.Ints(sorted)

	for i, index := range sorted {
		want := i + 1
		if index != want && index > want {
			return want
		}
	}
	return sorted[len(sorted)-1] + 1
}

// IndexesOf returns the indexes of rules in their current order
func IndexesOf(rules []models.Rule) []int {
	indexes := make([]int, len(rules))
	for i, r := range rules {
		indexes[i] = r.Index
	}
	return indexes
}
