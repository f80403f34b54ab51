// # internal/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"strata/internal/architecture"
	"strata/internal/graph"
	"strata/internal/lang"
	"strata/internal/resolver"
	"strata/internal/scan"
	"strata/internal/shared/observability"
)

// Options tunes a single analysis run.
type Options struct {
	ModuleDepth int
	TargetFloor int
	TargetCeil  int
	Timeout     time.Duration
}

// Result is everything one run produced. Slot pointers are nil when the
// producing stage errored or was skipped; States records why.
type Result struct {
	RunID        string                     `json:"run_id"`
	StartedAt    time.Time                  `json:"started_at"`
	Duration     time.Duration              `json:"duration"`
	FileCount    int                        `json:"file_count"`
	States       map[string]string          `json:"states"`
	Graph        *graph.DependencyGraph     `json:"-"`
	Analysis     *graph.Analysis            `json:"-"`
	Architecture *architecture.Architecture `json:"-"`
}

// Engine wires the default analyzer pipeline.
type Engine struct {
	registry *lang.Registry
	pipeline *Pipeline
	opts     Options
}

// New builds an engine with the standard three stages.
func New(registry *lang.Registry, opts Options) (*Engine, error) {
	e := &Engine{registry: registry, opts: opts}
	pipeline, err := NewPipeline([]Analyzer{
		{
			Name:     "structural",
			Provides: []string{CapStructural},
			Run:      e.runStructural,
		},
		{
			Name:     "metrics",
			Requires: []string{CapStructural},
			Provides: []string{CapMetrics},
			Run:      e.runMetrics,
		},
		{
			Name:     "architecture",
			Requires: []string{CapStructural, CapMetrics},
			Provides: []string{CapArchitecture},
			Run:      e.runArchitecture,
		},
	})
	if err != nil {
		return nil, err
	}
	e.pipeline = pipeline
	return e, nil
}

// Run executes the pipeline over the manifest.
func (e *Engine) Run(ctx context.Context, files []scan.SourceFile) (*Result, error) {
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		FileCount: len(files),
	}
	ctx, span := observability.Tracer.Start(ctx, "engine.run")
	defer span.End()
	slog.Info("analysis started", "run_id", result.RunID, "files", len(files))

	store := &Store{Files: files}
	if err := e.pipeline.Execute(ctx, store); err != nil {
		return nil, err
	}

	result.Duration = time.Since(result.StartedAt)
	result.States = store.slotStates()
	result.Graph, _ = store.Structural.Get()
	result.Analysis, _ = store.Metrics.Get()
	result.Architecture, _ = store.Architecture.Get()

	if result.Graph == nil {
		return result, fmt.Errorf("structural analysis failed: %s", store.Structural.ErrorReason())
	}
	slog.Info("analysis finished", "run_id", result.RunID, "duration", result.Duration)
	return result, nil
}

func (e *Engine) runStructural(ctx context.Context, store *Store) error {
	if len(store.Files) == 0 {
		return fmt.Errorf("scan manifest is empty")
	}
	res := resolver.New(e.registry, store.Files)
	g, err := graph.Build(store.Files, res)
	if err != nil {
		return err
	}
	store.Structural.Set(g, "structural")

	observability.GraphNodes.Set(float64(len(g.Nodes)))
	observability.GraphEdges.Set(float64(g.EdgeCount))
	observability.PhantomImports.Set(float64(len(g.Phantoms)))
	return nil
}

func (e *Engine) runMetrics(ctx context.Context, store *Store) error {
	g, ok := store.Structural.Get()
	if !ok {
		return fmt.Errorf("structural graph missing")
	}
	analysis := graph.Analyze(g)
	store.Metrics.Set(analysis, "metrics")

	observability.CycleGroups.Set(float64(len(analysis.Cycles)))
	return nil
}

func (e *Engine) runArchitecture(ctx context.Context, store *Store) error {
	g, ok := store.Structural.Get()
	if !ok {
		return fmt.Errorf("structural graph missing")
	}
	analysis, ok := store.Metrics.Get()
	if !ok {
		return fmt.Errorf("graph metrics missing")
	}
	arch := architecture.Analyze(store.Files, g, analysis, architecture.DetectOptions{
		Depth:       e.opts.ModuleDepth,
		TargetFloor: e.opts.TargetFloor,
		TargetCeil:  e.opts.TargetCeil,
		IndexNames:  e.registry.IndexNames(),
	})
	store.Architecture.Set(arch, "architecture")

	observability.ModulesDetected.Set(float64(arch.ModuleCount))
	observability.LayerViolations.Set(float64(len(arch.Violations)))
	return nil
}
