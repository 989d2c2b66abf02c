package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqltrail/internal/cli/output"
)

// maxColumnsWidth caps the rendered column list unless --wide is set.
const maxColumnsWidth = 40

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var wide bool

	cmd := &cobra.Command{
		Use:   "tables [file...]",
		Short: "List every table, CTE and target in the given files",
		Long: `Trace the given files and print an inventory of the extracted
entities: sources, CTEs and targets, with their columns.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(cmd, args, wide)
		},
	}

	cmd.Flags().BoolVar(&wide, "wide", false, "do not truncate column lists")

	return cmd
}

func runTables(cmd *cobra.Command, args []string, wide bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var rows []output.TableInfo
	for _, path := range args {
		result, err := cmdCtx.Engine.Trace(cmd.Context(), path)
		if err != nil {
			return err
		}
		for _, tr := range result.Statements {
			for _, ent := range tr.Analysis.Entities() {
				rows = append(rows, output.TableInfo{
					Name:      ent.Name,
					Kind:      ent.Kind.String(),
					Columns:   ent.Columns,
					Source:    result.Source,
					Statement: tr.Index + 1,
				})
			}
		}
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.TablesOutput{Tables: rows, Total: len(rows)})
	case output.ModeMarkdown:
		renderEntityTable(r, rows, wide, true)
		return nil
	default:
		renderEntityTable(r, rows, wide, false)
		return nil
	}
}

func renderEntityTable(r *output.Renderer, rows []output.TableInfo, wide, markdown bool) {
	if len(rows) == 0 {
		r.Muted("no entities found")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.Writer())
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Kind", "Name", "Columns", "Statement", "Source"})

	for _, row := range rows {
		cols := strings.Join(row.Columns, ", ")
		if !wide {
			cols = truncateOneLine(cols, maxColumnsWidth)
		}
		tw.AppendRow(table.Row{row.Kind, row.Name, cols, row.Statement, row.Source})
	}

	if markdown {
		tw.RenderMarkdown()
	} else {
		tw.Render()
	}

	r.Printf("(%d entities)\n", len(rows))
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
