// # internal/graph/betweenness.go
package graph

import "strata/internal/shared/util"

// Betweenness computes shortest-path betweenness centrality with
// Brandes' algorithm over unweighted directed edges. Scores are
// normalized by (n-1)(n-2), the number of ordered node pairs a node
// can sit between; graphs with fewer than three nodes score all zeros.
func (g *DependencyGraph) Betweenness() map[string]float64 {
	nodes := g.SortedNodes()
	centrality := make(map[string]float64, len(nodes))
	for _, node := range nodes {
		centrality[node] = 0
	}
	n := len(nodes)
	if n <= 2 {
		return centrality
	}

	for _, source := range nodes {
		// BFS from source, recording shortest-path counts and
		// predecessor lists.
		stack := make([]string, 0, n)
		preds := make(map[string][]string, n)
		sigma := map[string]float64{source: 1}
		dist := map[string]int{source: 0}

		queue := []string{source}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range util.SortedStringKeys(g.Adjacency[v]) {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		// Accumulate dependencies in reverse BFS order.
		delta := make(map[string]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != source {
				centrality[w] += delta[w]
			}
		}
	}

	scale := 1.0 / (float64(n-1) * float64(n-2))
	for node := range centrality {
		centrality[node] *= scale
	}
	return centrality
}
