// # internal/graph/gini.go
package graph

import "sort"

// Gini measures how unevenly a set of non-negative values is
// distributed: 0 means perfectly even, values near 1 mean a few nodes
// hold almost everything. Fewer than two values, or all zeros, score 0.
func Gini(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	total := 0.0
	weighted := 0.0
	for i, v := range sorted {
		total += v
		weighted += float64(i+1) * v
	}
	if total == 0 {
		return 0
	}
	n := float64(len(sorted))
	return 2*weighted/(n*total) - (n+1)/n
}
