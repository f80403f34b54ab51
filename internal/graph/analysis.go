// # internal/graph/analysis.go
package graph

import "strata/internal/shared/util"

// Analysis bundles every structural metric computed on the file graph.
type Analysis struct {
	PageRank       map[string]float64 `json:"pagerank"`
	Betweenness    map[string]float64 `json:"betweenness"`
	BlastRadius    map[string]int     `json:"blast_radius"`
	Cycles         []CycleGroup       `json:"cycles"`
	Communities    map[string]int     `json:"communities"`
	Modularity     float64            `json:"modularity"`
	CentralityGini float64            `json:"centrality_gini"`
	Depths         map[string]int     `json:"depths"`
	MaxDepth       int                `json:"max_depth"`
	Orphans        []string           `json:"orphans"`
}

// Analyze runs the full metric suite.
func Analyze(g *DependencyGraph) *Analysis {
	a := &Analysis{
		PageRank:    g.PageRank(),
		Betweenness: g.Betweenness(),
		BlastRadius: g.BlastRadiusSizes(),
		Cycles:      g.CycleGroups(),
		Orphans:     g.Orphans(),
	}
	a.Communities, a.Modularity = g.Communities()
	a.Depths, a.MaxDepth = g.Depths()

	ranks := make([]float64, 0, len(a.PageRank))
	for _, node := range util.SortedStringKeys(a.PageRank) {
		ranks = append(ranks, a.PageRank[node])
	}
	a.CentralityGini = Gini(ranks)
	return a
}

// Orphans lists files with no imports in either direction.
func (g *DependencyGraph) Orphans() []string {
	var orphans []string
	for _, node := range g.SortedNodes() {
		if g.InDegree(node) == 0 && g.OutDegree(node) == 0 {
			orphans = append(orphans, node)
		}
	}
	return orphans
}

// Depths measures each file's distance from the program's entry points,
// the files nothing imports but that import something. Files unreachable
// from any entry point (isolated or purely cyclic) get -1. The second
// return is the deepest reachable level.
func (g *DependencyGraph) Depths() (map[string]int, int) {
	depths := make(map[string]int, len(g.Nodes))
	var queue []string
	for _, node := range g.SortedNodes() {
		if g.InDegree(node) == 0 && g.OutDegree(node) > 0 {
			depths[node] = 0
			queue = append(queue, node)
		}
	}

	maxDepth := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, target := range util.SortedStringKeys(g.Adjacency[current]) {
			if _, seen := depths[target]; seen {
				continue
			}
			depths[target] = depths[current] + 1
			if depths[target] > maxDepth {
				maxDepth = depths[target]
			}
			queue = append(queue, target)
		}
	}

	for node := range g.Nodes {
		if _, seen := depths[node]; !seen {
			depths[node] = -1
		}
	}
	return depths, maxDepth
}
