// # internal/graph/scc.go
package graph

import (
	"sort"

	"strata/internal/shared/util"
)

// CycleGroup is a strongly connected component with more than one
// member, i.e. a genuine import cycle.
type CycleGroup struct {
	Members       []string `json:"members"`
	InternalEdges int      `json:"internal_edges"`
}

// tarjanFrame keeps one node's in-progress neighbor iteration so the
// algorithm can run on an explicit stack. Recursion would overflow on
// the deep chains real repos produce.
type tarjanFrame struct {
	node      string
	neighbors []string
	next      int
}

// StronglyConnected returns all SCCs via iterative Tarjan. Component
// members are sorted; components are ordered by their smallest member.
func (g *DependencyGraph) StronglyConnected() [][]string {
	index := make(map[string]int, len(g.Nodes))
	lowlink := make(map[string]int, len(g.Nodes))
	onStack := make(map[string]bool, len(g.Nodes))
	var tarjanStack []string
	var components [][]string
	counter := 0

	var callStack []tarjanFrame
	push := func(node string) {
		index[node] = counter
		lowlink[node] = counter
		counter++
		tarjanStack = append(tarjanStack, node)
		onStack[node] = true
		callStack = append(callStack, tarjanFrame{
			node:      node,
			neighbors: util.SortedStringKeys(g.Adjacency[node]),
		})
	}

	for _, root := range g.SortedNodes() {
		if _, visited := index[root]; visited {
			continue
		}
		push(root)
		for len(callStack) > 0 {
			frame := &callStack[len(callStack)-1]
			advanced := false
			for frame.next < len(frame.neighbors) {
				neighbor := frame.neighbors[frame.next]
				frame.next++
				if _, visited := index[neighbor]; !visited {
					push(neighbor)
					advanced = true
					break
				}
				if onStack[neighbor] && index[neighbor] < lowlink[frame.node] {
					lowlink[frame.node] = index[neighbor]
				}
			}
			if advanced {
				continue
			}

			// Node finished: pop its component if it is a root.
			if lowlink[frame.node] == index[frame.node] {
				var component []string
				for {
					top := tarjanStack[len(tarjanStack)-1]
					tarjanStack = tarjanStack[:len(tarjanStack)-1]
					onStack[top] = false
					component = append(component, top)
					if top == frame.node {
						break
					}
				}
				sort.Strings(component)
				components = append(components, component)
			}
			finished := frame.node
			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := &callStack[len(callStack)-1]
				if lowlink[finished] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[finished]
				}
			}
		}
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

// CycleGroups filters SCCs down to real cycles and counts the edges
// internal to each.
func (g *DependencyGraph) CycleGroups() []CycleGroup {
	var groups []CycleGroup
	for _, component := range g.StronglyConnected() {
		if len(component) < 2 {
			continue
		}
		membership := make(map[string]bool, len(component))
		for _, node := range component {
			membership[node] = true
		}
		edges := 0
		for _, node := range component {
			for target := range g.Adjacency[node] {
				if membership[target] {
					edges++
				}
			}
		}
		groups = append(groups, CycleGroup{Members: component, InternalEdges: edges})
	}
	return groups
}
