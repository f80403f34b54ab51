// # internal/architecture/metrics.go
package architecture

import (
	"math"

	"strata/internal/graph"
	"strata/internal/scan"
)

// ComputeMetrics fills in the Martin metrics for every module: coupling
// counts, instability, abstractness, main-sequence distance, cohesion,
// and community boundary alignment.
func ComputeMetrics(
	modules map[string]*Module,
	g *graph.DependencyGraph,
	files []scan.SourceFile,
	communities map[string]int,
) {
	index := FileIndex(modules)
	classes := make(map[string]scan.SourceFile, len(files))
	for _, f := range files {
		classes[f.Path] = f
	}

	for _, mod := range modules {
		computeCoupling(mod, index, g)
		computeEdgeRatios(mod, g)
		computeAbstractness(mod, classes)
		mod.MainSeqDistance = mainSeqDistance(mod.Abstractness, mod.Instability)
		computeBoundaryAlignment(mod, communities)
	}
}

// computeCoupling counts edges crossing the module boundary. Ca is
// incoming from other modules, Ce outgoing to them.
func computeCoupling(mod *Module, index map[string]string, g *graph.DependencyGraph) {
	ca, ce := 0, 0
	for _, f := range mod.Files {
		for target := range g.Adjacency[f] {
			if other, ok := index[target]; ok && other != mod.Path {
				ce++
			}
		}
		for source := range g.Reverse[f] {
			if other, ok := index[source]; ok && other != mod.Path {
				ca++
			}
		}
	}
	mod.AfferentCoupling = ca
	mod.EfferentCoupling = ce
	if total := ca + ce; total > 0 {
		i := float64(ce) / float64(total)
		mod.Instability = &i
	}
}

// computeEdgeRatios derives cohesion (internal density) and coupling
// (share of outgoing edges leaving the module).
func computeEdgeRatios(mod *Module, g *graph.DependencyGraph) {
	membership := make(map[string]bool, len(mod.Files))
	for _, f := range mod.Files {
		membership[f] = true
	}
	internal, external := 0, 0
	for _, f := range mod.Files {
		for target := range g.Adjacency[f] {
			if membership[target] {
				internal++
			} else {
				external++
			}
		}
	}
	mod.InternalEdges = internal
	mod.ExternalEdges = external

	if total := internal + external; total > 0 {
		mod.Coupling = float64(external) / float64(total)
	}
	n := len(mod.Files)
	if possible := n * (n - 1); possible > 0 {
		mod.Cohesion = float64(internal) / float64(possible)
	}
}

func computeAbstractness(mod *Module, files map[string]scan.SourceFile) {
	total, abstract := 0, 0
	for _, f := range mod.Files {
		total += files[f].Classes
		abstract += files[f].AbstractClasses
	}
	if total == 0 {
		mod.Abstractness = 0
		return
	}
	mod.Abstractness = math.Min(1, float64(abstract)/float64(total))
}

// mainSeqDistance is |A + I - 1|, the distance from Martin's main
// sequence. Undefined instability yields 0 rather than a misleading
// number.
func mainSeqDistance(abstractness float64, instability *float64) float64 {
	if instability == nil {
		return 0
	}
	return math.Abs(abstractness + *instability - 1)
}

// computeBoundaryAlignment measures how much of the module lives in its
// dominant import community. 1.0 means the directory boundary and the
// community structure agree.
func computeBoundaryAlignment(mod *Module, communities map[string]int) {
	if len(mod.Files) == 0 {
		mod.BoundaryAlignment = 1
		return
	}
	counts := make(map[int]int)
	for _, f := range mod.Files {
		id, ok := communities[f]
		if !ok {
			id = -1
		}
		counts[id]++
	}
	dominant := 0
	for _, count := range counts {
		if count > dominant {
			dominant = count
		}
	}
	mod.BoundaryAlignment = float64(dominant) / float64(len(mod.Files))
}
