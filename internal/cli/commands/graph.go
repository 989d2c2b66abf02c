package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqltrail/internal/cli/output"
	"github.com/leapstack-labs/sqltrail/internal/dag"
	"github.com/leapstack-labs/sqltrail/internal/engine"
	"github.com/leapstack-labs/sqltrail/pkg/core"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "graph [file...]",
		Short: "Show the merged dependency graph",
		Long: `Trace every statement in the given files, merge the per-statement
graphs and print the result tier by tier, sources first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGraph,
	}
}

func runGraph(cmd *cobra.Command, args []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var traces []engine.StatementTrace
	sources := make([]string, 0, len(args))
	for _, path := range args {
		result, err := cmdCtx.Engine.Trace(cmd.Context(), path)
		if err != nil {
			return err
		}
		sources = append(sources, result.Source)
		traces = append(traces, result.Statements...)
	}

	merged := engine.MergeGraphs(traces)
	tiers := merged.Tiers()

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return graphJSON(r, sources, merged, tiers)
	case output.ModeMarkdown:
		return graphMarkdown(r, merged, tiers)
	default:
		return graphText(r, merged, tiers)
	}
}

// graphText outputs the merged graph in styled text format.
func graphText(r *output.Renderer, g *dag.Graph, tiers [][]string) error {
	styles := r.Styles()

	r.Header(1, "Dependency Graph")

	if g.NodeCount() == 0 {
		r.Muted("graph is empty")
		return nil
	}

	for i, tier := range tiers {
		r.Println(styles.Header2.Render(fmt.Sprintf("Tier %d:", i)))
		for _, label := range tier {
			r.Printf("  %s\n", styles.Entity.Render(displayName(label)))
			if parents := displayNames(g.GetParents(label)); len(parents) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("reads from:"), strings.Join(parents, ", "))
			}
			if children := displayNames(g.GetChildren(label)); len(children) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("feeds:"), strings.Join(children, ", "))
			}
		}
		r.Println("")
	}

	r.Println(styles.Header2.Render("Summary"))
	r.Printf("  %s %s\n", styles.Muted.Render("roots:"), strings.Join(displayNames(g.Roots()), ", "))
	r.Printf("  %s %s\n", styles.Muted.Render("leaves:"), strings.Join(displayNames(g.Leaves()), ", "))
	r.Println("")
	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d tables, %d dependencies", g.NodeCount(), g.EdgeCount())))

	return nil
}

// graphMarkdown outputs the merged graph in markdown format.
func graphMarkdown(r *output.Renderer, g *dag.Graph, tiers [][]string) error {
	r.Println(output.FormatHeader(1, "Dependency Graph"))
	r.Println("")

	if g.NodeCount() == 0 {
		r.Println("graph is empty")
		return nil
	}

	for i, tier := range tiers {
		tierName := fmt.Sprintf("Tier %d", i)
		if i == 0 {
			tierName = "Tier 0 (Sources)"
		}
		r.Println(output.FormatHeader(2, tierName))

		for _, label := range tier {
			r.Printf("- %s\n", displayName(label))
			if parents := displayNames(g.GetParents(label)); len(parents) > 0 {
				r.Printf("  - reads from: %s\n", strings.Join(parents, ", "))
			}
			if children := displayNames(g.GetChildren(label)); len(children) > 0 {
				r.Printf("  - feeds: %s\n", strings.Join(children, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Roots", strings.Join(displayNames(g.Roots()), ", ")))
	r.Println(output.FormatKeyValue("Leaves", strings.Join(displayNames(g.Leaves()), ", ")))
	r.Println(output.FormatKeyValue("Total Tables", fmt.Sprintf("%d", g.NodeCount())))
	r.Println(output.FormatKeyValue("Total Dependencies", fmt.Sprintf("%d", g.EdgeCount())))

	return nil
}

// graphJSON outputs the merged graph in JSON format.
func graphJSON(r *output.Renderer, sources []string, g *dag.Graph, tiers [][]string) error {
	doc := output.GraphOutput{
		Sources: sources,
		Tiers:   make([]output.GraphTier, 0, len(tiers)),
		Roots:   g.Roots(),
		Leaves:  g.Leaves(),
		Nodes:   g.NodeCount(),
		Edges:   g.EdgeCount(),
	}

	for i, tier := range tiers {
		graphTier := output.GraphTier{
			Index:  i,
			Tables: make([]output.GraphNode, 0, len(tier)),
		}

		for _, label := range tier {
			node := output.GraphNode{
				Label:     label,
				ReadsFrom: g.GetParents(label),
				Feeds:     g.GetChildren(label),
			}
			if n, ok := g.GetNode(label); ok {
				if kind, isKind := n.Data.(core.EntityKind); isKind {
					node.Kind = kind.String()
				}
			}
			graphTier.Tables = append(graphTier.Tables, node)
		}

		doc.Tiers = append(doc.Tiers, graphTier)
	}

	return r.JSON(doc)
}

// displayName reduces a node label to the bare table name. Labels carry
// an embedded column block when column display is on.
func displayName(label string) string {
	name, _, _ := strings.Cut(label, "\n")
	return strings.TrimSuffix(name, ":")
}

func displayNames(labels []string) []string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, displayName(label))
	}
	return names
}
