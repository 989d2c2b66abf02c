package engine

import (
	"github.com/leapstack-labs/sqltrail/internal/dag"
	"github.com/leapstack-labs/sqltrail/pkg/core"
)

// buildGraph connects one statement's entities into a dependency graph.
// The target enters first, then the used CTE, then the sources, so that
// after tier reversal sources sit in tier 0 and the target in the
// highest tier. Edges run source to used CTE to target; without CTEs
// sources feed the target directly; without a target every node is
// added edge-less. A label seen twice replaces the earlier node's data
// and is reported at warn level.
func (e *Engine) buildGraph(analysis core.Analysis) *dag.Graph {
	g := dag.NewGraph()

	target := analysis.Target
	used := analysis.UsedCTE()

	var targetLabel, usedLabel string

	if target != nil {
		targetLabel = target.Label(e.displayColumns)
		e.addNode(g, targetLabel, core.KindTarget)
	}

	if used != nil {
		usedLabel = used.Label(e.displayColumns)
		e.addNode(g, usedLabel, core.KindCTE)
		if target != nil {
			e.addEdge(g, usedLabel, targetLabel)
		}
	}

	if target == nil && (used != nil || len(analysis.Sources) > 0) {
		e.logger.Debug("no target table, graph has no edges")
	}

	for _, src := range analysis.Sources {
		label := src.Label(e.displayColumns)
		e.addNode(g, label, core.KindSource)
		switch {
		case target == nil:
			// read-only statement, nodes stay disconnected
		case used != nil:
			e.addEdge(g, label, usedLabel)
		default:
			e.addEdge(g, label, targetLabel)
		}
	}

	return g
}

// addNode inserts a labeled node, warning when the label is already
// taken. The new entity kind wins.
func (e *Engine) addNode(g *dag.Graph, label string, kind core.EntityKind) {
	if g.HasNode(label) {
		e.logger.Warn("duplicate label in diagram", "label", label, "kind", kind.String())
	}
	g.AddNode(label, kind)
}

// addEdge inserts an edge and downgrades construction errors to
// warnings. Duplicate edges are a silent no-op inside the graph.
func (e *Engine) addEdge(g *dag.Graph, from, to string) {
	if err := g.AddEdge(from, to); err != nil {
		e.logger.Warn("skipping edge", "from", from, "to", to, "error", err)
	}
}

// MergeGraphs unions per-statement graphs into one diagram, preserving
// label insertion order across statements. Shared labels collapse into
// a single node, which stitches together statements that read each
// other's tables; the kind recorded by the latest statement wins.
func MergeGraphs(traces []StatementTrace) *dag.Graph {
	merged := dag.NewGraph()
	for _, tr := range traces {
		for _, n := range tr.Graph.GetAllNodes() {
			merged.AddNode(n.Label, n.Data)
		}
		for _, edge := range tr.Graph.Edges() {
			_ = merged.AddEdge(edge[0], edge[1])
		}
	}
	return merged
}
