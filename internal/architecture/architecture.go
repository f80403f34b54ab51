// # internal/architecture/architecture.go
package architecture

import (
	"log/slog"

	"strata/internal/graph"
	"strata/internal/scan"
	"strata/internal/shared/util"
)

// BoundaryMismatch flags a module whose directory boundary disagrees
// with the import communities: files that import mostly across the
// boundary probably live in the wrong place.
type BoundaryMismatch struct {
	ModulePath     string      `json:"module_path"`
	Alignment      float64     `json:"alignment"`
	Distribution   map[int]int `json:"community_distribution"`
	MisplacedFiles []string    `json:"misplaced_files"`
}

// Architecture is the full inferred structure of the codebase.
type Architecture struct {
	Modules       map[string]*Module        `json:"modules"`
	ModuleGraph   map[string]map[string]int `json:"module_graph"`
	Layers        []Layer                   `json:"layers"`
	Violations    []Violation               `json:"violations"`
	ViolationRate float64                   `json:"violation_rate"`
	HasLayering   bool                      `json:"has_layering"`
	MaxDepth      int                       `json:"max_depth"`
	ModuleCount   int                       `json:"module_count"`
	Mismatches    []BoundaryMismatch        `json:"boundary_mismatches"`
}

const (
	mismatchAlignmentCeil = 0.7
	mismatchMinFiles      = 3
)

// Analyze runs the full architecture pass over an analyzed graph.
func Analyze(files []scan.SourceFile, g *graph.DependencyGraph, analysis *graph.Analysis, opts DetectOptions) *Architecture {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	opts.Communities = analysis.Communities

	modules := DetectModules(paths, opts)
	ComputeMetrics(modules, g, files, analysis.Communities)
	moduleGraph := BuildModuleGraph(modules, g)
	layers, violations := InferLayers(modules, moduleGraph)

	crossEdges := 0
	maxDepth := 0
	for _, mod := range modules {
		crossEdges += mod.ExternalEdges
		if mod.Layer > maxDepth {
			maxDepth = mod.Layer
		}
	}
	violationEdges := 0
	for _, v := range violations {
		violationEdges += v.EdgeCount
	}
	rate := 0.0
	if crossEdges > 0 {
		rate = float64(violationEdges) / float64(crossEdges)
	}

	arch := &Architecture{
		Modules:       modules,
		ModuleGraph:   moduleGraph,
		Layers:        layers,
		Violations:    violations,
		ViolationRate: rate,
		HasLayering:   len(layers) >= 2,
		MaxDepth:      maxDepth,
		ModuleCount:   len(modules),
		Mismatches:    detectMismatches(modules, analysis.Communities),
	}
	slog.Debug("architecture analysis complete",
		"modules", arch.ModuleCount, "layers", len(layers), "violations", len(violations))
	return arch
}

// detectMismatches finds modules spanning multiple communities. Tiny
// modules are skipped since one stray file dominates their ratio.
func detectMismatches(modules map[string]*Module, communities map[string]int) []BoundaryMismatch {
	var mismatches []BoundaryMismatch
	for _, modPath := range util.SortedStringKeys(modules) {
		mod := modules[modPath]
		if mod.BoundaryAlignment >= mismatchAlignmentCeil || mod.FileCount < mismatchMinFiles {
			continue
		}
		distribution := make(map[int]int)
		for _, f := range mod.Files {
			id, ok := communities[f]
			if !ok {
				id = -1
			}
			distribution[id]++
		}
		dominant, dominantCount := 0, -1
		for _, id := range util.SortedIntKeys(distribution) {
			if distribution[id] > dominantCount {
				dominant, dominantCount = id, distribution[id]
			}
		}
		var misplaced []string
		for _, f := range mod.Files {
			if id, ok := communities[f]; !ok || id != dominant {
				misplaced = append(misplaced, f)
			}
		}
		mismatches = append(mismatches, BoundaryMismatch{
			ModulePath:     modPath,
			Alignment:      mod.BoundaryAlignment,
			Distribution:   distribution,
			MisplacedFiles: misplaced,
		})
	}
	return mismatches
}
