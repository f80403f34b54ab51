package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "strata_graph_nodes_total",
		Help: "Total number of file nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "strata_graph_edges_total",
		Help: "Total number of resolved import edges in the dependency graph.",
	})

	PhantomImports = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "strata_phantom_imports_total",
		Help: "Number of imports that looked internal but could not be resolved.",
	})

	CycleGroups = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "strata_cycle_groups_total",
		Help: "Number of strongly connected components with more than one member.",
	})

	ModulesDetected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "strata_modules_total",
		Help: "Number of modules in the inferred architecture.",
	})

	LayerViolations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "strata_layer_violations_total",
		Help: "Number of module edges that break the inferred layer ordering.",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "strata_stage_seconds",
		Help:    "Time spent in each analysis pipeline stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)
