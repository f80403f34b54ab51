// # internal/output/tsv.go
package output

import (
	"fmt"
	"strings"

	"strata/internal/graph"
	"strata/internal/shared/util"
)

type TSVGenerator struct {
	graph *graph.DependencyGraph
}

func NewTSVGenerator(g *graph.DependencyGraph) *TSVGenerator {
	return &TSVGenerator{graph: g}
}

// Generate emits the file-level edge list.
func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\n")
	for _, from := range t.graph.SortedNodes() {
		for _, to := range util.SortedStringKeys(t.graph.Adjacency[from]) {
			buf.WriteString(fmt.Sprintf("%s\t%s\n", from, to))
		}
	}

	return buf.String(), nil
}

// GeneratePhantoms emits unresolved internal-looking imports.
func (t *TSVGenerator) GeneratePhantoms() (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tImporter\tImport\n")
	for _, p := range t.graph.Phantoms {
		buf.WriteString(fmt.Sprintf("phantom_import\t%s\t%s\n", p.Importer, p.Import))
	}

	return buf.String(), nil
}
