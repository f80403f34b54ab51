// # internal/graph/graph.go
//
// Package graph builds the file-level dependency graph and computes the
// structural metrics over it: PageRank, betweenness, cycles, blast
// radius, communities, and concentration. All iteration over node maps
// goes through sorted keys so every run produces identical output.
package graph

import (
	"fmt"
	"log/slog"

	"strata/internal/resolver"
	"strata/internal/scan"
	"strata/internal/shared/util"
)

// PhantomImport records an import that looked project-internal but
// resolved to no file in the manifest. Usually a deleted or renamed
// module that still has importers.
type PhantomImport struct {
	Importer string `json:"importer"`
	Import   string `json:"import"`
}

// DependencyGraph is the directed file-level graph. Adjacency holds
// importer -> imported edges, Reverse the transpose.
type DependencyGraph struct {
	Nodes     map[string]bool
	Adjacency map[string]map[string]bool
	Reverse   map[string]map[string]bool
	EdgeCount int
	Phantoms  []PhantomImport
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes:     make(map[string]bool),
		Adjacency: make(map[string]map[string]bool),
		Reverse:   make(map[string]map[string]bool),
	}
}

// AddNode registers a file with no edges yet.
func (g *DependencyGraph) AddNode(path string) {
	if !g.Nodes[path] {
		g.Nodes[path] = true
		g.Adjacency[path] = make(map[string]bool)
		g.Reverse[path] = make(map[string]bool)
	}
}

// AddEdge records source importing target. Both endpoints must already
// be nodes; an edge to an unknown node means the builder and resolver
// disagree about the file universe, which is a bug worth failing on.
func (g *DependencyGraph) AddEdge(source, target string) error {
	if !g.Nodes[source] {
		return fmt.Errorf("edge source %q is not a graph node", source)
	}
	if !g.Nodes[target] {
		return fmt.Errorf("edge target %q is not a graph node", target)
	}
	if source == target || g.Adjacency[source][target] {
		return nil
	}
	g.Adjacency[source][target] = true
	g.Reverse[target][source] = true
	g.EdgeCount++
	return nil
}

// SortedNodes returns all node paths in sorted order.
func (g *DependencyGraph) SortedNodes() []string {
	return util.SortedStringKeys(g.Nodes)
}

// OutDegree and InDegree are nil-safe for unknown nodes.
func (g *DependencyGraph) OutDegree(node string) int { return len(g.Adjacency[node]) }
func (g *DependencyGraph) InDegree(node string) int  { return len(g.Reverse[node]) }

// Build constructs the graph from the manifest: one node per file, one
// edge per resolved import. Unresolved imports that look internal are
// collected as phantoms.
func Build(files []scan.SourceFile, res *resolver.Resolver) (*DependencyGraph, error) {
	g := NewDependencyGraph()
	for _, f := range files {
		g.AddNode(f.Path)
	}
	for _, f := range files {
		for _, imp := range f.Imports {
			target, ok := res.Resolve(f.Path, imp)
			if ok {
				if err := g.AddEdge(f.Path, target); err != nil {
					return nil, err
				}
				continue
			}
			if res.LooksInternal(f.Path, imp) {
				g.Phantoms = append(g.Phantoms, PhantomImport{Importer: f.Path, Import: imp})
			}
		}
	}
	slog.Debug("dependency graph built",
		"nodes", len(g.Nodes), "edges", g.EdgeCount, "phantoms", len(g.Phantoms))
	return g, nil
}
