// # internal/output/dot.go
package output

import (
	"fmt"
	"strings"

	"strata/internal/architecture"
	"strata/internal/shared/util"
)

type DOTGenerator struct {
	arch *architecture.Architecture
}

func NewDOTGenerator(arch *architecture.Architecture) *DOTGenerator {
	return &DOTGenerator{arch: arch}
}

// Generate renders the module graph grouped by layer, with violating
// edges drawn red.
func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph architecture {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("  splines=polyline;\n\n")

	violating := make(map[string]map[string]bool)
	for _, v := range d.arch.Violations {
		if violating[v.SourceModule] == nil {
			violating[v.SourceModule] = make(map[string]bool)
		}
		violating[v.SourceModule][v.TargetModule] = true
	}

	for _, layer := range d.arch.Layers {
		buf.WriteString(fmt.Sprintf("  subgraph cluster_layer_%d {\n", layer.Depth))
		buf.WriteString(fmt.Sprintf("    label=\"layer %d (%s)\";\n", layer.Depth, layer.Label))
		buf.WriteString("    style=filled;\n")
		buf.WriteString("    color=\"whitesmoke\";\n")
		buf.WriteString("    node [fillcolor=\"white\", style=\"rounded,filled\"];\n")
		for _, modPath := range layer.Modules {
			mod := d.arch.Modules[modPath]
			label := fmt.Sprintf("%s\\n(%d files)", modPath, mod.FileCount)
			buf.WriteString(fmt.Sprintf("    %q [label=\"%s\"];\n", modPath, label))
		}
		buf.WriteString("  }\n\n")
	}

	for _, source := range util.SortedStringKeys(d.arch.ModuleGraph) {
		targets := d.arch.ModuleGraph[source]
		for _, target := range util.SortedStringKeys(targets) {
			weight := targets[target]
			if violating[source][target] {
				buf.WriteString(fmt.Sprintf("  %q -> %q [label=\"%d\", color=\"red\", penwidth=2.0];\n",
					source, target, weight))
			} else {
				buf.WriteString(fmt.Sprintf("  %q -> %q [label=\"%d\"];\n", source, target, weight))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}
