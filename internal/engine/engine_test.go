package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"strata/internal/lang"
	"strata/internal/scan"
)

func testManifest() []scan.SourceFile {
	return []scan.SourceFile{
		{Path: "src/api/handlers.py", Language: "python", Imports: []string{"..core.store", "os"}},
		{Path: "src/api/routes.py", Language: "python", Imports: []string{".handlers", "..core.model"}},
		{Path: "src/core/store.py", Language: "python", Imports: []string{".model"}},
		{Path: "src/core/model.py", Language: "python", Imports: []string{"dataclasses"}},
	}
}

func TestEngineFullRun(t *testing.T) {
	e, err := New(lang.DefaultRegistry(), Options{ModuleDepth: 2})
	require.NoError(t, err)

	result, err := e.Run(context.Background(), testManifest())
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Equal(t, 4, result.FileCount)

	require.NotNil(t, result.Graph)
	require.Equal(t, 4, result.Graph.EdgeCount)
	require.Empty(t, result.Graph.Phantoms)

	require.NotNil(t, result.Analysis)
	require.Empty(t, result.Analysis.Cycles)

	require.NotNil(t, result.Architecture)
	require.Equal(t, 2, result.Architecture.ModuleCount)
	require.Equal(t, 0, result.Architecture.Modules["src/core"].Layer)
	require.Equal(t, 1, result.Architecture.Modules["src/api"].Layer)
	require.Empty(t, result.Architecture.Violations)

	for capability, state := range result.States {
		require.Equalf(t, "value", state, "slot %s", capability)
	}
}

func TestEngineEmptyManifestFails(t *testing.T) {
	e, err := New(lang.DefaultRegistry(), Options{})
	require.NoError(t, err)

	result, err := e.Run(context.Background(), nil)
	require.Error(t, err)
	require.Equal(t, "error", result.States[CapStructural])
	// Downstream stages must be skipped, not run against nothing.
	require.Equal(t, "error", result.States[CapMetrics])
	require.Equal(t, "error", result.States[CapArchitecture])
}

func TestPipelineRejectsUnsatisfiedRequires(t *testing.T) {
	_, err := NewPipeline([]Analyzer{
		{Name: "late", Requires: []string{CapStructural}},
	})
	require.Error(t, err)
}

func TestPipelineRejectsDuplicateProviders(t *testing.T) {
	noop := func(ctx context.Context, store *Store) error { return nil }
	_, err := NewPipeline([]Analyzer{
		{Name: "one", Provides: []string{CapStructural}, Run: noop},
		{Name: "two", Provides: []string{CapStructural}, Run: noop},
	})
	require.Error(t, err)
}

func TestPipelineRejectsUnknownCapability(t *testing.T) {
	noop := func(ctx context.Context, store *Store) error { return nil }
	_, err := NewPipeline([]Analyzer{
		{Name: "bad", Provides: []string{"astrology"}, Run: noop},
	})
	require.Error(t, err)
}

func TestPipelineGatesOnFailedStage(t *testing.T) {
	boom := func(ctx context.Context, store *Store) error { return fmt.Errorf("boom") }
	ran := false
	pipeline, err := NewPipeline([]Analyzer{
		{Name: "structural", Provides: []string{CapStructural}, Run: boom},
		{
			Name:     "metrics",
			Requires: []string{CapStructural},
			Provides: []string{CapMetrics},
			Run: func(ctx context.Context, store *Store) error {
				ran = true
				return nil
			},
		},
	})
	require.NoError(t, err)

	store := &Store{}
	require.NoError(t, pipeline.Execute(context.Background(), store))
	require.False(t, ran, "dependent stage must not run after its requirement failed")
	require.Equal(t, SlotError, store.Structural.State())
	require.Equal(t, "boom", store.Structural.ErrorReason())
	require.Equal(t, SlotError, store.Metrics.State())
}

func TestPipelineHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipeline, err := NewPipeline([]Analyzer{
		{Name: "structural", Provides: []string{CapStructural},
			Run: func(ctx context.Context, store *Store) error { return nil }},
	})
	require.NoError(t, err)
	require.Error(t, pipeline.Execute(ctx, &Store{}))
}
