package render

import (
	"github.com/leapstack-labs/sqltrail/internal/dag"
	"github.com/leapstack-labs/sqltrail/internal/layout"
	"github.com/leapstack-labs/sqltrail/pkg/core"
)

// Document is the JSON form of one positioned lineage graph. Corner
// anchors are presentation detail and never appear in it.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats Stats  `json:"stats"`
}

// Node is one graph node with its diagram position.
type Node struct {
	Label string  `json:"label"`
	Kind  string  `json:"kind,omitempty"`
	Tier  int     `json:"tier"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Edge is a directed dependency between two node labels.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Stats summarizes the graph.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
	Tiers int `json:"tiers"`
}

// BuildDocument flattens a graph, its tiers and its positions into a
// marshal-ready document. Nodes keep the graph's insertion order.
func BuildDocument(g *dag.Graph, tiers [][]string, pos map[string]layout.Point) *Document {
	tierOf := make(map[string]int)
	for i, tier := range tiers {
		for _, label := range tier {
			tierOf[label] = i
		}
	}

	doc := &Document{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}

	for _, n := range g.GetAllNodes() {
		node := Node{
			Label: n.Label,
			Tier:  tierOf[n.Label],
		}
		if kind, ok := n.Data.(core.EntityKind); ok {
			node.Kind = kind.String()
		}
		if p, ok := pos[n.Label]; ok {
			node.X = p.X
			node.Y = p.Y
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	for _, edge := range g.Edges() {
		doc.Edges = append(doc.Edges, Edge{From: edge[0], To: edge[1]})
	}

	doc.Stats = Stats{
		Nodes: g.NodeCount(),
		Edges: g.EdgeCount(),
		Tiers: len(tiers),
	}

	return doc
}
