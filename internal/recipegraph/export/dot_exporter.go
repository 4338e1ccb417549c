package export

import (
	"fmt"
	"strings"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph"
)

// ToDOT renders the recipe dependency graph as Graphviz DOT: items as
// nodes, one edge per recipe input pointing at the recipe's primary
// output. Handy for eyeballing recycling loops and diamond dependencies.
func ToDOT(g *recipegraph.Graph, title string) string {
	var b strings.Builder
	b.WriteString("digraph recipes {\n  rankdir=LR;\n  node [shape=box, style=rounded];\n")
	if title != "" {
		b.WriteString(fmt.Sprintf(`  labelloc="t"; label="%s"; fontname="Helvetica";`, title))
		b.WriteString("\n")
	}

	for _, it := range g.Items() {
		b.WriteString(fmt.Sprintf(`  "i%d" [label="%s", style="rounded,filled", fillcolor="#eef6ff"];`+"\n", it.ID, it.Name))
	}

	for _, r := range g.Recipes() {
		out := r.PrimaryOutput()
		for _, in := range r.Inputs {
			lbl := fmt.Sprintf("%s #%d", r.Building, r.ID)
			if in.Count != out.Count {
				lbl = fmt.Sprintf("%s (%gx -> %gx)", lbl, in.Count, out.Count)
			}
			b.WriteString(fmt.Sprintf(`  "i%d" -> "i%d" [label="%s"];`+"\n", in.ItemID, out.ItemID, lbl))
		}
	}

	b.WriteString("}\n")
	return b.String()
}
