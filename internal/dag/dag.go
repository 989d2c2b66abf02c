// Package dag provides the directed dependency graph behind lineage
// diagrams. Nodes are keyed by display label and remember insertion
// order so the same statement always produces the same drawing.
package dag

import (
	"fmt"
)

// Node represents a node in the lineage graph.
type Node struct {
	// Label is the unique display label (entity name, optionally
	// followed by its column list)
	Label string
	// Data holds arbitrary node data
	Data interface{}
}

// Graph represents a directed dependency graph keyed by node label.
type Graph struct {
	nodes   map[string]*Node
	order   []string            // labels in insertion order
	edges   map[string][]string // parent -> children (dependents)
	parents map[string][]string // child -> parents (dependencies)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Adding a label that already exists
// replaces the node data but keeps the original insertion position, so
// entities that collapse to the same label collapse to one node.
func (g *Graph) AddNode(label string, data interface{}) {
	if _, exists := g.nodes[label]; !exists {
		g.nodes[label] = &Node{Label: label, Data: data}
		g.order = append(g.order, label)
		g.edges[label] = []string{}
		g.parents[label] = []string{}
	} else {
		// Update data if node already exists
		g.nodes[label].Data = data
	}
}

// AddEdge adds a directed edge from parent to child (child depends on parent).
func (g *Graph) AddEdge(parentLabel, childLabel string) error {
	// Ensure both nodes exist
	if _, exists := g.nodes[parentLabel]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentLabel)
	}
	if _, exists := g.nodes[childLabel]; !exists {
		return fmt.Errorf("child node %q does not exist", childLabel)
	}

	// Check for self-loops
	if parentLabel == childLabel {
		return fmt.Errorf("self-loop detected: %s", parentLabel)
	}

	// Add edge (avoid duplicates)
	if !contains(g.edges[parentLabel], childLabel) {
		g.edges[parentLabel] = append(g.edges[parentLabel], childLabel)
	}
	if !contains(g.parents[childLabel], parentLabel) {
		g.parents[childLabel] = append(g.parents[childLabel], parentLabel)
	}

	return nil
}

// GetNode returns a node by label.
func (g *Graph) GetNode(label string) (*Node, bool) {
	node, exists := g.nodes[label]
	return node, exists
}

// HasNode reports whether a label is present in the graph.
func (g *Graph) HasNode(label string) bool {
	_, exists := g.nodes[label]
	return exists
}

// GetParents returns the parents (dependencies) of a node.
func (g *Graph) GetParents(label string) []string {
	return g.parents[label]
}

// GetChildren returns the children (dependents) of a node.
func (g *Graph) GetChildren(label string) []string {
	return g.edges[label]
}

// Nodes returns all node labels in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// GetAllNodes returns all nodes in insertion order.
func (g *Graph) GetAllNodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, label := range g.order {
		nodes = append(nodes, g.nodes[label])
	}
	return nodes
}

// Edges returns every edge as a [parent, child] pair, ordered by the
// insertion position of the parent.
func (g *Graph) Edges() [][2]string {
	pairs := make([][2]string, 0, g.EdgeCount())
	for _, parent := range g.order {
		for _, child := range g.edges[parent] {
			pairs = append(pairs, [2]string{parent, child})
		}
	}
	return pairs
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// Roots returns nodes with no parents, in insertion order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, label := range g.order {
		if len(g.parents[label]) == 0 {
			roots = append(roots, label)
		}
	}
	return roots
}

// Leaves returns nodes with no children, in insertion order.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, label := range g.order {
		if len(g.edges[label]) == 0 {
			leaves = append(leaves, label)
		}
	}
	return leaves
}

// Tiers groups nodes into diagram columns. Walking nodes in insertion
// order, each not-yet-placed node opens a tier and claims every other
// unplaced node whose outgoing edge set is identical to its own, so
// entities feeding the same dependents share a column. The result is
// reversed before returning: sinks carry the highest tier index.
//
// A node with no outgoing edges only groups with other edge-less
// nodes, which keeps a lone target in a tier of its own.
func (g *Graph) Tiers() [][]string {
	placed := make(map[string]bool, len(g.order))
	var tiers [][]string

	for _, label := range g.order {
		if placed[label] {
			continue
		}
		tier := []string{label}
		placed[label] = true

		for _, other := range g.order {
			if placed[other] {
				continue
			}
			if sameSet(g.edges[label], g.edges[other]) {
				tier = append(tier, other)
				placed[other] = true
			}
		}
		tiers = append(tiers, tier)
	}

	for i, j := 0, len(tiers)-1; i < j; i, j = i+1, j-1 {
		tiers[i], tiers[j] = tiers[j], tiers[i]
	}
	return tiers
}

// sameSet compares two edge lists as sets. Edge lists never hold
// duplicates, so equal length plus membership is enough.
func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, s := range a {
		if !contains(b, s) {
			return false
		}
	}
	return true
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
