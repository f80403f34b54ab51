// # internal/graph/louvain.go
package graph

import (
	"fmt"
	"sort"

	"strata/internal/shared/util"
)

const (
	louvainMaxPasses     = 20
	louvainMaxIterations = 10
)

// weightedGraph is the undirected view Louvain works on. Directed edges
// are folded onto canonical pairs, so a mutual import weighs 2.
type weightedGraph struct {
	nodes  []string
	adj    map[string]map[string]float64
	degree map[string]float64 // self loops count twice
	m      float64            // total edge weight
}

func newWeightedGraph(g *DependencyGraph) *weightedGraph {
	w := &weightedGraph{
		nodes:  g.SortedNodes(),
		adj:    make(map[string]map[string]float64, len(g.Nodes)),
		degree: make(map[string]float64, len(g.Nodes)),
	}
	for _, node := range w.nodes {
		w.adj[node] = make(map[string]float64)
	}
	for _, source := range w.nodes {
		for target := range g.Adjacency[source] {
			w.addWeight(source, target, 1)
		}
	}
	return w
}

func (w *weightedGraph) addWeight(a, b string, weight float64) {
	if w.adj[a] == nil {
		w.adj[a] = make(map[string]float64)
	}
	if w.adj[b] == nil {
		w.adj[b] = make(map[string]float64)
	}
	w.adj[a][b] += weight
	if a != b {
		w.adj[b][a] += weight
		w.degree[a] += weight
		w.degree[b] += weight
	} else {
		w.degree[a] += 2 * weight
	}
	w.m += weight
}

// localMove runs Louvain phase one: repeatedly move each node to the
// neighboring community with the best modularity gain. Returns the
// node -> community assignment and whether anything moved at all.
func (w *weightedGraph) localMove() (map[string]int, bool) {
	comm := make(map[string]int, len(w.nodes))
	sigma := make(map[int]float64, len(w.nodes))
	for i, node := range w.nodes {
		comm[node] = i
		sigma[i] = w.degree[node]
	}

	anyMoved := false
	for pass := 0; pass < louvainMaxPasses; pass++ {
		moved := false
		for _, node := range w.nodes {
			current := comm[node]
			ki := w.degree[node]

			// Weight from node into each neighboring community.
			links := make(map[int]float64)
			for _, neighbor := range util.SortedStringKeys(w.adj[node]) {
				if neighbor != node {
					links[comm[neighbor]] += w.adj[node][neighbor]
				}
			}

			sigma[current] -= ki
			removeCost := -links[current]/w.m + sigma[current]*ki/(2*w.m*w.m)

			best := current
			bestGain := 0.0
			for _, candidate := range util.SortedIntKeys(links) {
				gain := removeCost + links[candidate]/w.m - sigma[candidate]*ki/(2*w.m*w.m)
				if gain > bestGain {
					bestGain = gain
					best = candidate
				}
			}

			sigma[best] += ki
			comm[node] = best
			if best != current {
				moved = true
				anyMoved = true
			}
		}
		if !moved {
			break
		}
	}
	return comm, anyMoved
}

// coarsen collapses each community to a super node and aggregates edge
// weights, internal edges becoming self loops.
func (w *weightedGraph) coarsen(comm map[string]int) (*weightedGraph, map[string]string) {
	// Renumber communities by their smallest member so super-node names
	// are stable across runs.
	smallest := make(map[int]string)
	for _, node := range w.nodes {
		c := comm[node]
		if prev, ok := smallest[c]; !ok || node < prev {
			smallest[c] = node
		}
	}
	order := make([]int, 0, len(smallest))
	for c := range smallest {
		order = append(order, c)
	}
	sort.Slice(order, func(i, j int) bool { return smallest[order[i]] < smallest[order[j]] })

	superName := make(map[int]string, len(order))
	for i, c := range order {
		superName[c] = fmt.Sprintf("__super_%d", i)
	}

	coarse := &weightedGraph{
		adj:    make(map[string]map[string]float64, len(order)),
		degree: make(map[string]float64, len(order)),
	}
	for _, c := range order {
		coarse.nodes = append(coarse.nodes, superName[c])
		coarse.adj[superName[c]] = make(map[string]float64)
	}

	membership := make(map[string]string, len(w.nodes))
	for _, node := range w.nodes {
		membership[node] = superName[comm[node]]
	}
	for _, a := range w.nodes {
		for _, b := range util.SortedStringKeys(w.adj[a]) {
			if a > b {
				continue // visit each undirected edge once
			}
			coarse.addWeight(membership[a], membership[b], w.adj[a][b])
		}
	}
	return coarse, membership
}

// Communities detects import communities with the Louvain method and
// returns each file's community id plus the modularity of the final
// partition. An edgeless graph yields singleton communities with Q=0.
func (g *DependencyGraph) Communities() (map[string]int, float64) {
	original := newWeightedGraph(g)
	assignment := make(map[string]string, len(original.nodes))
	for _, node := range original.nodes {
		assignment[node] = node
	}

	if original.m == 0 {
		result := make(map[string]int, len(original.nodes))
		for i, node := range original.nodes {
			result[node] = i
		}
		return result, 0
	}

	level := original
	for iter := 0; iter < louvainMaxIterations; iter++ {
		comm, moved := level.localMove()
		if !moved {
			break
		}
		coarse, membership := level.coarsen(comm)
		for node, super := range assignment {
			assignment[node] = membership[super]
		}
		if len(coarse.nodes) == len(level.nodes) {
			break
		}
		level = coarse
	}

	result := canonicalCommunities(original.nodes, assignment)
	return result, modularity(original, result)
}

// canonicalCommunities renumbers community labels to 0..k-1 ordered by
// each community's smallest member.
func canonicalCommunities(nodes []string, assignment map[string]string) map[string]int {
	smallest := make(map[string]string)
	for _, node := range nodes {
		label := assignment[node]
		if prev, ok := smallest[label]; !ok || node < prev {
			smallest[label] = node
		}
	}
	labels := make([]string, 0, len(smallest))
	for label := range smallest {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return smallest[labels[i]] < smallest[labels[j]] })

	id := make(map[string]int, len(labels))
	for i, label := range labels {
		id[label] = i
	}
	result := make(map[string]int, len(nodes))
	for _, node := range nodes {
		result[node] = id[assignment[node]]
	}
	return result
}

// modularity evaluates Q for a partition on the original undirected
// graph: sum over communities of e_in/m - (sigma/2m)^2.
func modularity(w *weightedGraph, partition map[string]int) float64 {
	if w.m == 0 {
		return 0
	}
	internal := make(map[int]float64)
	sigma := make(map[int]float64)
	for _, node := range w.nodes {
		c := partition[node]
		sigma[c] += w.degree[node]
		for neighbor, weight := range w.adj[node] {
			if partition[neighbor] != c {
				continue
			}
			if node < neighbor {
				internal[c] += weight
			} else if node == neighbor {
				internal[c] += weight
			}
		}
	}
	q := 0.0
	for _, c := range util.SortedIntKeys(sigma) {
		share := sigma[c] / (2 * w.m)
		q += internal[c]/w.m - share*share
	}
	return q
}
