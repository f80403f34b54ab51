// # internal/architecture/layers.go
package architecture

import (
	"sort"

	"strata/internal/graph"
	"strata/internal/shared/util"
)

// Layer is one depth level of the inferred architecture.
type Layer struct {
	Depth   int      `json:"depth"`
	Modules []string `json:"modules"`
	Label   string   `json:"label"`
}

type ViolationType string

const (
	// ViolationBackward is a lower layer importing a higher one.
	ViolationBackward ViolationType = "BACKWARD"
	// ViolationSkip is a layer importing more than one level down.
	ViolationSkip ViolationType = "SKIP"
)

// Violation is a module edge that breaks the inferred layer ordering.
type Violation struct {
	SourceModule string        `json:"source_module"`
	TargetModule string        `json:"target_module"`
	SourceLayer  int           `json:"source_layer"`
	TargetLayer  int           `json:"target_layer"`
	Type         ViolationType `json:"type"`
	EdgeCount    int           `json:"edge_count"`
}

// BuildModuleGraph contracts file edges to weighted module edges.
// Weight is the number of underlying file edges.
func BuildModuleGraph(modules map[string]*Module, g *graph.DependencyGraph) map[string]map[string]int {
	index := FileIndex(modules)
	edges := make(map[string]map[string]int)
	for source, targets := range g.Adjacency {
		sourceMod, ok := index[source]
		if !ok {
			continue
		}
		for target := range targets {
			targetMod, ok := index[target]
			if !ok || targetMod == sourceMod {
				continue
			}
			if edges[sourceMod] == nil {
				edges[sourceMod] = make(map[string]int)
			}
			edges[sourceMod][targetMod]++
		}
	}
	return edges
}

// InferLayers assigns each module a depth: modules importing nothing
// sit at layer 0, and each importer lands one above the deepest thing
// it imports. Module cycles are contracted first so relaxation
// terminates; every member of a cycle stays at layer 0. Mutates
// Module.Layer and returns the layers plus the ordering violations.
func InferLayers(modules map[string]*Module, moduleGraph map[string]map[string]int) ([]Layer, []Violation) {
	if len(modules) == 0 {
		return nil, nil
	}

	compOf, multi := moduleComponents(modules, moduleGraph)

	// Condensed edges between components; intra-component edges vanish.
	compAdj := make(map[int]map[int]bool)
	compRev := make(map[int]map[int]bool)
	for source, targets := range moduleGraph {
		for target := range targets {
			sc, tc := compOf[source], compOf[target]
			if sc == tc {
				continue
			}
			if compAdj[sc] == nil {
				compAdj[sc] = make(map[int]bool)
			}
			compAdj[sc][tc] = true
			if compRev[tc] == nil {
				compRev[tc] = make(map[int]bool)
			}
			compRev[tc][sc] = true
		}
	}

	// Process the condensation bottom-up: a component is finalized once
	// everything it imports has a layer. The condensation is acyclic, so
	// this always drains.
	layer := make(map[int]int, len(multi))
	remaining := make(map[int]int, len(multi))
	var queue []int
	for comp := range multi {
		remaining[comp] = len(compAdj[comp])
		if remaining[comp] == 0 {
			queue = append(queue, comp)
		}
	}
	sort.Ints(queue)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		next := layer[current] + 1
		for _, importer := range util.SortedIntKeys(compRev[current]) {
			if layer[importer] < next {
				layer[importer] = next
			}
			remaining[importer]--
			if remaining[importer] == 0 {
				if multi[importer] {
					layer[importer] = 0
				}
				queue = append(queue, importer)
			}
		}
	}

	maxLayer := 0
	for _, modPath := range util.SortedStringKeys(modules) {
		level := layer[compOf[modPath]]
		modules[modPath].Layer = level
		if level > maxLayer {
			maxLayer = level
		}
	}

	byDepth := make(map[int][]string)
	for modPath, mod := range modules {
		byDepth[mod.Layer] = append(byDepth[mod.Layer], modPath)
	}
	layers := make([]Layer, 0, maxLayer+1)
	for depth := 0; depth <= maxLayer; depth++ {
		members := byDepth[depth]
		sort.Strings(members)
		layers = append(layers, Layer{
			Depth:   depth,
			Modules: members,
			Label:   layerLabel(depth, maxLayer),
		})
	}

	return layers, DetectViolations(modules, moduleGraph)
}

// moduleComponents runs Tarjan over the module graph and returns each
// module's component id plus the set of components with more than one
// member. Component ids follow the graph package's ordering (by
// smallest member), so downstream iteration stays deterministic.
func moduleComponents(modules map[string]*Module, moduleGraph map[string]map[string]int) (map[string]int, map[int]bool) {
	mg := graph.NewDependencyGraph()
	for modPath := range modules {
		mg.AddNode(modPath)
	}
	for source, targets := range moduleGraph {
		mg.AddNode(source)
		for target := range targets {
			mg.AddNode(target)
			// Endpoints were just added, so AddEdge cannot fail.
			_ = mg.AddEdge(source, target)
		}
	}

	compOf := make(map[string]int, len(modules))
	multi := make(map[int]bool)
	for i, members := range mg.StronglyConnected() {
		for _, member := range members {
			compOf[member] = i
		}
		multi[i] = len(members) > 1
	}
	return compOf, multi
}

// DetectViolations flags module edges that go against the layering:
// BACKWARD edges point up, SKIP edges jump more than one layer down.
func DetectViolations(modules map[string]*Module, moduleGraph map[string]map[string]int) []Violation {
	var violations []Violation
	for _, sourceMod := range util.SortedStringKeys(moduleGraph) {
		source, ok := modules[sourceMod]
		if !ok {
			continue
		}
		for _, targetMod := range util.SortedStringKeys(moduleGraph[sourceMod]) {
			target, ok := modules[targetMod]
			if !ok {
				continue
			}
			v := Violation{
				SourceModule: sourceMod,
				TargetModule: targetMod,
				SourceLayer:  source.Layer,
				TargetLayer:  target.Layer,
				EdgeCount:    moduleGraph[sourceMod][targetMod],
			}
			switch {
			case source.Layer < target.Layer:
				v.Type = ViolationBackward
			case source.Layer-target.Layer > 1:
				v.Type = ViolationSkip
			default:
				continue
			}
			violations = append(violations, v)
		}
	}
	return violations
}

func layerLabel(depth, maxDepth int) string {
	switch {
	case depth == 0:
		return "foundation"
	case depth == maxDepth:
		return "entry"
	case depth == maxDepth-1:
		return "service"
	default:
		return "logic"
	}
}
