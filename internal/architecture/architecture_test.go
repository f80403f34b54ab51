package architecture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"strata/internal/graph"
	"strata/internal/scan"
)

func fileGraph(t *testing.T, edges map[string][]string, extra ...string) *graph.DependencyGraph {
	t.Helper()
	g := graph.NewDependencyGraph()
	for source, targets := range edges {
		g.AddNode(source)
		for _, target := range targets {
			g.AddNode(target)
		}
	}
	for _, node := range extra {
		g.AddNode(node)
	}
	for source, targets := range edges {
		for _, target := range targets {
			require.NoError(t, g.AddEdge(source, target))
		}
	}
	return g
}

func sourceFiles(g *graph.DependencyGraph) []scan.SourceFile {
	var files []scan.SourceFile
	for _, p := range g.SortedNodes() {
		files = append(files, scan.SourceFile{Path: p})
	}
	return files
}

func TestDetermineDepth(t *testing.T) {
	var paths []string
	for _, dir := range []string{"src/api", "src/core", "src/db"} {
		for _, name := range []string{"a.py", "b.py", "c.py", "d.py"} {
			paths = append(paths, dir+"/"+name)
		}
	}
	require.Equal(t, 2, DetermineDepth(paths, DetectOptions{}))

	require.Equal(t, 0, DetermineDepth([]string{"a.py", "b.py"}, DetectOptions{}))
	require.Equal(t, 0, DetermineDepth(nil, DetectOptions{}))
}

func TestDetectModulesPartitionIsTotal(t *testing.T) {
	paths := []string{
		"src/api/handlers.py",
		"src/api/routes.py",
		"src/api/auth.py",
		"src/core/__init__.py",
		"src/core/store.py",
		"src/core/model.py",
		"main.py",
	}
	modules := DetectModules(paths, DetectOptions{IndexNames: []string{"__init__.py"}})
	seen := make(map[string]int)
	for _, mod := range modules {
		for _, f := range mod.Files {
			seen[f]++
		}
	}
	require.Len(t, seen, len(paths), "every file must be in a module")
	for f, count := range seen {
		require.Equalf(t, 1, count, "file %s assigned to %d modules", f, count)
	}
}

func TestDetectModulesIndexOnlyDirReattaches(t *testing.T) {
	paths := []string{
		"src/top.py",
		"src/pkg/__init__.py",
		"src/api/a.py",
		"src/api/b.py",
		"src/api/c.py",
		"src/core/x.py",
		"src/core/y.py",
		"src/core/z.py",
	}
	modules := DetectModules(paths, DetectOptions{Depth: 2, IndexNames: []string{"__init__.py"}})
	require.NotContains(t, modules, "src/pkg")
	require.Contains(t, modules["src"].Files, "src/pkg/__init__.py")
	total := 0
	for _, mod := range modules {
		total += mod.FileCount
	}
	require.Equal(t, len(paths), total)
}

func TestDetectModulesCommunityFallback(t *testing.T) {
	paths := []string{"a.py", "b.py", "c.py", "d.py"}
	communities := map[string]int{"a.py": 0, "b.py": 0, "c.py": 1, "d.py": 1}
	modules := DetectModules(paths, DetectOptions{Communities: communities})
	require.Len(t, modules, 2)
	require.Contains(t, modules, "community_0")
	require.Contains(t, modules, "community_1")
	require.Equal(t, []string{"a.py", "b.py"}, modules["community_0"].Files)
}

func TestScenarioLayering(t *testing.T) {
	g := fileGraph(t, map[string][]string{
		"api/handlers.py": {"core/store.py"},
		"api/routes.py":   {"core/model.py"},
		"core/store.py":   {"core/model.py"},
	})
	files := sourceFiles(g)
	arch := Analyze(files, g, graph.Analyze(g), DetectOptions{Depth: 1})

	require.Equal(t, 0, arch.Modules["core"].Layer)
	require.Equal(t, 1, arch.Modules["api"].Layer)
	require.Empty(t, arch.Violations)
	require.Zero(t, arch.ViolationRate)
	require.True(t, arch.HasLayering)
	require.Equal(t, "foundation", arch.Layers[0].Label)
	require.Equal(t, "entry", arch.Layers[1].Label)
}

func TestScenarioBackwardViolation(t *testing.T) {
	// core reaching back up into api is exactly one BACKWARD violation.
	g := fileGraph(t, map[string][]string{
		"api/handlers.py": {"core/store.py"},
		"api/routes.py":   {"core/model.py"},
		"core/store.py":   {"api/handlers.py"},
	})
	modules := DetectModules([]string{
		"api/handlers.py", "api/routes.py", "core/store.py", "core/model.py",
	}, DetectOptions{Depth: 1})
	moduleGraph := BuildModuleGraph(modules, g)

	// Pin layers as if the cycle had not flattened them.
	modules["core"].Layer = 0
	modules["api"].Layer = 1
	violations := DetectViolations(modules, moduleGraph)
	require.Len(t, violations, 1)
	require.Equal(t, ViolationBackward, violations[0].Type)
	require.Equal(t, "core", violations[0].SourceModule)
	require.Equal(t, "api", violations[0].TargetModule)
}

func TestInferLayersCyclicModules(t *testing.T) {
	// Mutually importing modules must still land on a finite layer.
	g := fileGraph(t, map[string][]string{
		"a/f.py":    {"b/f.py", "leaf/f.py"},
		"b/f.py":    {"a/f.py"},
		"top/f.py":  {"a/f.py"},
		"leaf/f.py": {},
	})
	modules := DetectModules([]string{
		"a/f.py", "b/f.py", "leaf/f.py", "top/f.py",
	}, DetectOptions{Depth: 1})
	layers, _ := InferLayers(modules, BuildModuleGraph(modules, g))

	require.Equal(t, 0, modules["a"].Layer, "cycle members default to layer 0")
	require.Equal(t, 0, modules["b"].Layer)
	require.Equal(t, 0, modules["leaf"].Layer)
	require.Equal(t, 1, modules["top"].Layer, "importers still rise above the cycle")
	require.Len(t, layers, 2)
}

func TestInferLayersPureCycle(t *testing.T) {
	g := fileGraph(t, map[string][]string{
		"a/f.py": {"b/f.py"},
		"b/f.py": {"a/f.py"},
	})
	modules := DetectModules([]string{"a/f.py", "b/f.py"}, DetectOptions{Depth: 1})
	layers, violations := InferLayers(modules, BuildModuleGraph(modules, g))

	require.Len(t, layers, 1)
	require.Equal(t, 0, modules["a"].Layer)
	require.Equal(t, 0, modules["b"].Layer)
	require.Empty(t, violations, "same-layer edges are not violations")
}

func TestSkipViolation(t *testing.T) {
	g := fileGraph(t, map[string][]string{
		"entry/main.py":   {"mid/svc.py", "base/util.py"},
		"mid/svc.py":      {"base/util.py"},
	})
	modules := DetectModules([]string{
		"entry/main.py", "mid/svc.py", "base/util.py",
	}, DetectOptions{Depth: 1})
	moduleGraph := BuildModuleGraph(modules, g)
	layers, violations := InferLayers(modules, moduleGraph)

	require.Len(t, layers, 3)
	require.Len(t, violations, 1)
	require.Equal(t, ViolationSkip, violations[0].Type)
	require.Equal(t, "entry", violations[0].SourceModule)
	require.Equal(t, "base", violations[0].TargetModule)
}

func TestLayersContiguous(t *testing.T) {
	g := fileGraph(t, map[string][]string{
		"a/f.py": {"b/f.py"},
		"b/f.py": {"c/f.py"},
		"c/f.py": {"d/f.py"},
	})
	modules := DetectModules([]string{"a/f.py", "b/f.py", "c/f.py", "d/f.py"}, DetectOptions{Depth: 1})
	layers, _ := InferLayers(modules, BuildModuleGraph(modules, g))
	for i, layer := range layers {
		require.Equal(t, i, layer.Depth)
	}
}

func TestMetricsBounds(t *testing.T) {
	g := fileGraph(t, map[string][]string{
		"api/a.py":  {"api/b.py", "core/x.py"},
		"api/b.py":  {"core/y.py"},
		"core/x.py": {"core/y.py"},
	})
	files := sourceFiles(g)
	arch := Analyze(files, g, graph.Analyze(g), DetectOptions{Depth: 1})
	for _, mod := range arch.Modules {
		require.GreaterOrEqual(t, mod.Cohesion, 0.0)
		require.LessOrEqual(t, mod.Cohesion, 1.0)
		require.GreaterOrEqual(t, mod.Coupling, 0.0)
		require.LessOrEqual(t, mod.Coupling, 1.0)
	}

	api := arch.Modules["api"]
	require.Equal(t, 0, api.AfferentCoupling)
	require.Equal(t, 2, api.EfferentCoupling)
	require.NotNil(t, api.Instability)
	require.InDelta(t, 1.0, *api.Instability, 1e-9)
}

func TestIsolatedModuleMetrics(t *testing.T) {
	g := fileGraph(t, nil, "alone/a.py", "alone/b.py", "other/x.py", "other/y.py")
	files := sourceFiles(g)
	arch := Analyze(files, g, graph.Analyze(g), DetectOptions{Depth: 1})

	alone := arch.Modules["alone"]
	require.Nil(t, alone.Instability, "Ca=Ce=0 leaves instability undefined")
	require.Zero(t, alone.MainSeqDistance)
}

func TestAbstractness(t *testing.T) {
	g := fileGraph(t, nil, "m/a.py", "m/b.py", "n/x.py", "n/y.py")
	files := []scan.SourceFile{
		{Path: "m/a.py", Classes: 3, AbstractClasses: 2},
		{Path: "m/b.py", Classes: 1},
		{Path: "n/x.py"},
		{Path: "n/y.py"},
	}
	arch := Analyze(files, g, graph.Analyze(g), DetectOptions{Depth: 1})
	require.InDelta(t, 0.5, arch.Modules["m"].Abstractness, 1e-9)
	require.Zero(t, arch.Modules["n"].Abstractness, "no classes means A=0")
}

func TestBoundaryMismatch(t *testing.T) {
	paths := []string{"mix/a.py", "mix/b.py", "mix/c.py", "mix/d.py"}
	modules := DetectModules(paths, DetectOptions{Depth: 1})
	communities := map[string]int{"mix/a.py": 0, "mix/b.py": 0, "mix/c.py": 1, "mix/d.py": 2}
	ComputeMetrics(modules, graph.NewDependencyGraph(), nil, communities)

	mismatches := detectMismatches(modules, communities)
	require.Len(t, mismatches, 1)
	require.Equal(t, "mix", mismatches[0].ModulePath)
	require.InDelta(t, 0.5, mismatches[0].Alignment, 1e-9)
	require.ElementsMatch(t, []string{"mix/c.py", "mix/d.py"}, mismatches[0].MisplacedFiles)
}

func TestScenarioEdgelessArchitecture(t *testing.T) {
	g := fileGraph(t, nil, "p/a.py", "p/b.py", "q/x.py", "q/y.py")
	files := sourceFiles(g)
	arch := Analyze(files, g, graph.Analyze(g), DetectOptions{Depth: 1})
	require.Empty(t, arch.Violations)
	require.Zero(t, arch.ViolationRate)
	for _, mod := range arch.Modules {
		require.Equal(t, 0, mod.Layer)
	}
}
