// # internal/graph/blast.go
package graph

import (
	"sort"

	"strata/internal/shared/util"
)

// BlastRadius returns every file that transitively imports node, i.e.
// everything that could break if node changes. The node itself is
// excluded even when it sits on a cycle back to itself.
func (g *DependencyGraph) BlastRadius(node string) []string {
	if !g.Nodes[node] {
		return nil
	}
	visited := map[string]bool{node: true}
	queue := []string{node}
	var radius []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, importer := range util.SortedStringKeys(g.Reverse[current]) {
			if visited[importer] {
				continue
			}
			visited[importer] = true
			radius = append(radius, importer)
			queue = append(queue, importer)
		}
	}
	sort.Strings(radius)
	return radius
}

// BlastRadiusSizes computes the radius size for every node.
func (g *DependencyGraph) BlastRadiusSizes() map[string]int {
	sizes := make(map[string]int, len(g.Nodes))
	for _, node := range g.SortedNodes() {
		sizes[node] = len(g.BlastRadius(node))
	}
	return sizes
}
