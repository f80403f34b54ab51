// # internal/engine/pipeline.go
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"strata/internal/shared/observability"
)

// Analyzer is one pipeline stage. Requires lists capabilities that must
// hold values before it runs; Provides lists what it fills in.
type Analyzer struct {
	Name     string
	Requires []string
	Provides []string
	Run      func(ctx context.Context, store *Store) error
}

// Pipeline executes analyzers in registration order, which must be a
// valid topological order of their requires/provides relationships.
type Pipeline struct {
	analyzers []Analyzer
}

// NewPipeline validates the analyzer sequence: every capability name
// must be known, every requirement must be provided by an earlier
// analyzer, and no capability may have two producers.
func NewPipeline(analyzers []Analyzer) (*Pipeline, error) {
	provided := make(map[string]string)
	for _, a := range analyzers {
		for _, req := range a.Requires {
			if err := validCapability(req); err != nil {
				return nil, fmt.Errorf("analyzer %q: %w", a.Name, err)
			}
			if _, ok := provided[req]; !ok {
				return nil, fmt.Errorf("analyzer %q requires %q, which no earlier analyzer provides", a.Name, req)
			}
		}
		for _, prov := range a.Provides {
			if err := validCapability(prov); err != nil {
				return nil, fmt.Errorf("analyzer %q: %w", a.Name, err)
			}
			if owner, taken := provided[prov]; taken {
				return nil, fmt.Errorf("capability %q provided by both %q and %q", prov, owner, a.Name)
			}
			provided[prov] = a.Name
		}
	}
	return &Pipeline{analyzers: analyzers}, nil
}

// Execute runs every stage. A stage whose requirements are missing is
// skipped with its outputs marked errored; a stage returning an error
// likewise poisons only its own outputs, so later independent stages
// still run. The context deadline is checked between stages.
func (p *Pipeline) Execute(ctx context.Context, store *Store) error {
	for _, analyzer := range p.analyzers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline aborted before %q: %w", analyzer.Name, err)
		}

		if missing := p.missingRequirements(store, analyzer); missing != "" {
			reason := fmt.Sprintf("requirement %s not available", missing)
			slog.Warn("skipping analyzer", "analyzer", analyzer.Name, "reason", reason)
			p.poison(store, analyzer, reason)
			continue
		}

		stageCtx, span := observability.Tracer.Start(ctx, "analyze."+analyzer.Name)
		span.SetAttributes(attribute.Int("files", len(store.Files)))
		start := time.Now()
		err := analyzer.Run(stageCtx, store)
		elapsed := time.Since(start)
		observability.StageDuration.WithLabelValues(analyzer.Name).Observe(elapsed.Seconds())
		span.End()

		if err != nil {
			slog.Error("analyzer failed", "analyzer", analyzer.Name, "error", err)
			p.poison(store, analyzer, err.Error())
			continue
		}
		slog.Debug("analyzer finished", "analyzer", analyzer.Name, "elapsed", elapsed)
	}
	return nil
}

func (p *Pipeline) missingRequirements(store *Store, analyzer Analyzer) string {
	for _, req := range analyzer.Requires {
		if !store.available(req) {
			return req
		}
	}
	return ""
}

// poison marks every capability the analyzer would have provided as
// errored, unless the analyzer managed to set it before failing.
func (p *Pipeline) poison(store *Store, analyzer Analyzer, reason string) {
	for _, capability := range analyzer.Provides {
		if store.available(capability) {
			continue
		}
		switch capability {
		case CapStructural:
			store.Structural.SetError(reason, analyzer.Name)
		case CapMetrics:
			store.Metrics.SetError(reason, analyzer.Name)
		case CapArchitecture:
			store.Architecture.SetError(reason, analyzer.Name)
		}
	}
}
