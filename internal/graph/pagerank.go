// # internal/graph/pagerank.go
package graph

import "strata/internal/shared/util"

const (
	pagerankDamping    = 0.85
	pagerankIterations = 100
	pagerankTolerance  = 1e-6
)

// PageRank returns the stationary importance of each file under the
// standard random-surfer model. A file's rank flows to the files it
// imports; dangling files (no imports) spread their mass uniformly.
// Ranks sum to 1.
func (g *DependencyGraph) PageRank() map[string]float64 {
	n := len(g.Nodes)
	ranks := make(map[string]float64, n)
	if n == 0 {
		return ranks
	}

	nodes := g.SortedNodes()
	initial := 1.0 / float64(n)
	for _, node := range nodes {
		ranks[node] = initial
	}

	base := (1.0 - pagerankDamping) / float64(n)
	for iter := 0; iter < pagerankIterations; iter++ {
		danglingMass := 0.0
		for _, node := range nodes {
			if len(g.Adjacency[node]) == 0 {
				danglingMass += ranks[node]
			}
		}

		next := make(map[string]float64, n)
		share := base + pagerankDamping*danglingMass/float64(n)
		for _, node := range nodes {
			next[node] = share
		}
		for _, node := range nodes {
			out := g.Adjacency[node]
			if len(out) == 0 {
				continue
			}
			contribution := pagerankDamping * ranks[node] / float64(len(out))
			for _, target := range util.SortedStringKeys(out) {
				next[target] += contribution
			}
		}

		maxDiff := 0.0
		for _, node := range nodes {
			diff := next[node] - ranks[node]
			if diff < 0 {
				diff = -diff
			}
			if diff > maxDiff {
				maxDiff = diff
			}
		}
		ranks = next
		if maxDiff < pagerankTolerance {
			break
		}
	}
	return ranks
}
