// # internal/output/report.go
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"strata/internal/architecture"
	"strata/internal/engine"
	"strata/internal/graph"
	"strata/internal/shared/util"
)

// FileMetrics is the per-file row of the report.
type FileMetrics struct {
	Path        string  `json:"path"`
	PageRank    float64 `json:"pagerank"`
	Betweenness float64 `json:"betweenness"`
	InDegree    int     `json:"in_degree"`
	OutDegree   int     `json:"out_degree"`
	BlastRadius int     `json:"blast_radius"`
	Community   int     `json:"community"`
	Depth       int     `json:"depth"`
}

// Report is the machine-readable result of one run.
type Report struct {
	RunID     string            `json:"run_id"`
	StartedAt time.Time         `json:"started_at"`
	Duration  string            `json:"duration"`
	States    map[string]string `json:"states"`

	FileCount  int `json:"file_count"`
	EdgeCount  int `json:"edge_count"`
	CycleCount int `json:"cycle_count"`

	Files    []FileMetrics         `json:"files"`
	Cycles   []graph.CycleGroup    `json:"cycles,omitempty"`
	Phantoms []graph.PhantomImport `json:"phantom_imports,omitempty"`
	Orphans  []string              `json:"orphans,omitempty"`

	Modularity     float64 `json:"modularity"`
	CentralityGini float64 `json:"centrality_gini"`
	MaxDepth       int     `json:"max_depth"`

	Architecture *architecture.Architecture `json:"architecture,omitempty"`
}

// BuildReport flattens an engine result. Sections whose stage did not
// produce a value are simply absent; States says why.
func BuildReport(result *engine.Result) *Report {
	report := &Report{
		RunID:     result.RunID,
		StartedAt: result.StartedAt,
		Duration:  result.Duration.String(),
		States:    result.States,
		FileCount: result.FileCount,
	}

	g := result.Graph
	if g == nil {
		return report
	}
	report.EdgeCount = g.EdgeCount
	report.Phantoms = g.Phantoms

	if analysis := result.Analysis; analysis != nil {
		report.CycleCount = len(analysis.Cycles)
		report.Cycles = analysis.Cycles
		report.Orphans = analysis.Orphans
		report.Modularity = analysis.Modularity
		report.CentralityGini = analysis.CentralityGini
		report.MaxDepth = analysis.MaxDepth

		for _, path := range util.SortedStringKeys(g.Nodes) {
			report.Files = append(report.Files, FileMetrics{
				Path:        path,
				PageRank:    analysis.PageRank[path],
				Betweenness: analysis.Betweenness[path],
				InDegree:    g.InDegree(path),
				OutDegree:   g.OutDegree(path),
				BlastRadius: analysis.BlastRadius[path],
				Community:   analysis.Communities[path],
				Depth:       analysis.Depths[path],
			})
		}
		// Most load-bearing files first; path breaks ties.
		sort.SliceStable(report.Files, func(i, j int) bool {
			if report.Files[i].PageRank != report.Files[j].PageRank {
				return report.Files[i].PageRank > report.Files[j].PageRank
			}
			return report.Files[i].Path < report.Files[j].Path
		})
	}

	report.Architecture = result.Architecture
	return report
}

// Render serializes the report as JSON.
func (r *Report) Render(pretty bool) ([]byte, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return data, nil
}
