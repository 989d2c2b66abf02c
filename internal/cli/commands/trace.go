package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqltrail/internal/cli/output"
	"github.com/leapstack-labs/sqltrail/internal/engine"
	"github.com/leapstack-labs/sqltrail/internal/render"
	"github.com/leapstack-labs/sqltrail/pkg/core"
)

// NewTraceCommand creates the trace command.
func NewTraceCommand() *cobra.Command {
	var (
		dotFile string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "trace [file...]",
		Short: "Trace table lineage through SQL statements",
		Long: `Extract the SQL statements embedded in the given files, analyze each
statement's lineage and lay the dependency graph out on tiers.

Host scripts with triple-quoted query literals and raw .sql files are
both accepted. Placeholders like {NAME} are substituted from script
assignments and the vars configuration.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, args, dotFile, watch)
		},
	}

	cmd.Flags().StringVar(&dotFile, "dot", "", "write the merged positioned graph as Graphviz DOT to this file")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-trace whenever an input file changes")

	return cmd
}

func runTrace(cmd *cobra.Command, args []string, dotFile string, watch bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if watch {
		return watchTrace(cmd, cmdCtx, args)
	}

	results := make([]*engine.Result, 0, len(args))
	for _, path := range args {
		result, err := cmdCtx.Engine.Trace(cmd.Context(), path)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	for _, result := range results {
		if err := renderTraceResult(cmdCtx.Renderer, result); err != nil {
			return err
		}
	}

	if dotFile != "" {
		return writeDOTFile(cmdCtx, results, dotFile)
	}

	return nil
}

// watchTrace keeps re-tracing the inputs until interrupted.
func watchTrace(cmd *cobra.Command, cmdCtx *CommandContext, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := cmdCtx.Renderer
	onTrace := func(result *engine.Result, err error) {
		if err != nil {
			r.Error(err.Error())
			return
		}
		if renderErr := renderTraceResult(r, result); renderErr != nil {
			r.Error(renderErr.Error())
		}
	}

	if err := cmdCtx.Engine.Watch(ctx, args, cmdCtx.Cfg.WatchDebounce(), onTrace); err != nil {
		return err
	}

	r.Muted("watch stopped")
	return nil
}

// writeDOTFile lays the merged statement graph out afresh and pins the
// node positions in the emitted DOT.
func writeDOTFile(cmdCtx *CommandContext, results []*engine.Result, path string) error {
	var traces []engine.StatementTrace
	for _, result := range results {
		traces = append(traces, result.Statements...)
	}

	merged := engine.MergeGraphs(traces)
	_, pos := cmdCtx.Engine.Layout(merged)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render.WriteDOT(f, merged, pos); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write DOT: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	cmdCtx.Renderer.Success("DOT graph written to " + path)
	return nil
}

func renderTraceResult(r *output.Renderer, result *engine.Result) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return traceJSON(r, result)
	case output.ModeMarkdown:
		return traceMarkdown(r, result)
	default:
		return traceText(r, result)
	}
}

// traceJSON outputs one trace result as a JSON document.
func traceJSON(r *output.Renderer, result *engine.Result) error {
	doc := output.TraceOutput{
		Source:     result.Source,
		Statements: make([]output.StatementOutput, 0, len(result.Statements)),
		Skipped:    result.Skipped,
	}
	if result.Run != nil {
		doc.Run = output.NewRunOutput(result.Run)
	}

	for _, tr := range result.Statements {
		st := output.StatementOutput{
			Index:   tr.Index,
			Sources: sourceNames(tr.Analysis),
			Diagram: render.BuildDocument(tr.Graph, tr.Tiers, tr.Positions),
		}
		if tr.Analysis.Target != nil {
			st.Target = tr.Analysis.Target.Name
		}
		if cte := tr.Analysis.UsedCTE(); cte != nil {
			st.CTE = cte.Name
		}
		doc.Statements = append(doc.Statements, st)
	}

	return r.JSON(doc)
}

// traceText outputs one trace result in styled text format.
func traceText(r *output.Renderer, result *engine.Result) error {
	styles := r.Styles()

	r.Header(1, "Lineage: "+result.Source)
	r.Println("")

	if len(result.Statements) == 0 {
		r.Muted("no traceable statements")
		r.Println(styles.Muted.Render(traceSummary(result)))
		return nil
	}

	for _, tr := range result.Statements {
		r.Println(styles.Header2.Render(fmt.Sprintf("Statement %d", tr.Index+1)))

		if tr.Analysis.Target != nil {
			r.Printf("  %s %s\n", styles.Muted.Render("target:"), styles.Entity.Render(tr.Analysis.Target.Name))
		}
		if cte := tr.Analysis.UsedCTE(); cte != nil {
			r.Printf("  %s %s\n", styles.Muted.Render("via cte:"), cte.Name)
		}
		if len(tr.Analysis.Sources) > 0 {
			r.Printf("  %s %s\n", styles.Muted.Render("sources:"), strings.Join(sourceNames(tr.Analysis), ", "))
		}
		r.Printf("  %s %d tiers, %d nodes, %d edges\n",
			styles.Muted.Render("graph:"), len(tr.Tiers), tr.Graph.NodeCount(), tr.Graph.EdgeCount())
		r.Println("")
	}

	r.Println(styles.Muted.Render(traceSummary(result)))

	return nil
}

// traceMarkdown outputs one trace result in markdown format.
func traceMarkdown(r *output.Renderer, result *engine.Result) error {
	r.Println(output.FormatHeader(1, "Lineage: "+result.Source))
	r.Println("")

	if len(result.Statements) == 0 {
		r.Println(traceSummary(result))
		return nil
	}

	for _, tr := range result.Statements {
		r.Println(output.FormatHeader(2, fmt.Sprintf("Statement %d", tr.Index+1)))
		if tr.Analysis.Target != nil {
			r.Println(output.FormatKeyValue("Target", tr.Analysis.Target.Name))
		}
		if cte := tr.Analysis.UsedCTE(); cte != nil {
			r.Println(output.FormatKeyValue("Via CTE", cte.Name))
		}
		if len(tr.Analysis.Sources) > 0 {
			r.Println(output.FormatKeyValue("Sources", strings.Join(sourceNames(tr.Analysis), ", ")))
		}
		r.Println(output.FormatKeyValue("Graph",
			fmt.Sprintf("%d tiers, %d nodes, %d edges", len(tr.Tiers), tr.Graph.NodeCount(), tr.Graph.EdgeCount())))
		r.Println("")
	}

	r.Println(traceSummary(result))

	return nil
}

func traceSummary(result *engine.Result) string {
	summary := fmt.Sprintf("Total: %d statement(s), %d entities", len(result.Statements), result.Entities())
	if result.Skipped > 0 {
		summary += fmt.Sprintf(", %d skipped as malformed", result.Skipped)
	}
	return summary
}

func sourceNames(a core.Analysis) []string {
	names := make([]string, 0, len(a.Sources))
	for _, src := range a.Sources {
		names = append(names, src.Name)
	}
	return names
}
