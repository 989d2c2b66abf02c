// Package render serializes a positioned lineage graph for external
// tools: Graphviz DOT with pinned coordinates, and a JSON document for
// anything that wants the raw nodes and edges.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqltrail/internal/dag"
	"github.com/leapstack-labs/sqltrail/internal/layout"
)

// Diagram units are abstract (tier index, fan-out offset). Graphviz
// pins positions in inches, so spread them out enough that multi-line
// labels do not overlap.
const (
	xScale = 3.0
	yScale = 1.5
)

// WriteDOT writes the graph as a Graphviz digraph with every node
// pinned to its computed position. Corner anchors present in pos are
// emitted as invisible nodes so the drawing keeps its margin. Render
// with a fixed-position engine, e.g. `neato -Tpng`.
func WriteDOT(w io.Writer, g *dag.Graph, pos map[string]layout.Point) error {
	var b strings.Builder

	b.WriteString("digraph lineage {\n")
	b.WriteString("\tsplines=line;\n")
	b.WriteString("\tnode [shape=box, fontsize=10];\n")

	for _, label := range g.Nodes() {
		b.WriteString("\t\"")
		b.WriteString(escape(label))
		b.WriteString("\"")
		if p, ok := pos[label]; ok {
			b.WriteString(" [pos=\"")
			b.WriteString(formatPoint(p))
			b.WriteString("\"]")
		}
		b.WriteString(";\n")
	}

	for _, anchor := range layout.AnchorLabels() {
		p, ok := pos[anchor]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\t\"%s\" [pos=\"%s\", style=invis];\n", escape(anchor), formatPoint(p))
	}

	for _, edge := range g.Edges() {
		fmt.Fprintf(&b, "\t\"%s\" -> \"%s\";\n", escape(edge[0]), escape(edge[1]))
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func formatPoint(p layout.Point) string {
	x := strconv.FormatFloat(p.X*xScale, 'f', -1, 64)
	y := strconv.FormatFloat(p.Y*yScale, 'f', -1, 64)
	return x + "," + y + "!"
}

// escape quotes a label for a DOT double-quoted string. Newlines
// become \n so multi-line labels render as centered line breaks.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
