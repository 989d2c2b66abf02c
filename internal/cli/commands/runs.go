package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqltrail/internal/cli/output"
	"github.com/leapstack-labs/sqltrail/pkg/core"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent trace runs",
		Long:  `List the trace runs recorded in the state store, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to show")

	return cmd
}

func runRuns(cmd *cobra.Command, limit int) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store := cmdCtx.Engine.GetStateStore()
	if store == nil {
		return fmt.Errorf("run history is disabled, set state_path to enable it")
	}

	runs, err := store.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		doc := output.RunsOutput{
			Runs:  make([]*output.RunOutput, 0, len(runs)),
			Total: len(runs),
		}
		for _, run := range runs {
			doc.Runs = append(doc.Runs, output.NewRunOutput(run))
		}
		return r.JSON(doc)
	case output.ModeMarkdown:
		renderRunsTable(r, runs, true)
		return nil
	default:
		renderRunsTable(r, runs, false)
		return nil
	}
}

func renderRunsTable(r *output.Renderer, runs []*core.Run, markdown bool) {
	if len(runs) == 0 {
		r.Muted("no runs recorded yet")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.Writer())
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Source", "Status", "Statements", "Entities", "Started", "Duration"})

	for _, run := range runs {
		status := string(run.Status)
		if !markdown {
			status = styledStatus(r, run.Status)
		}
		tw.AppendRow(table.Row{
			shortID(run.ID),
			filepath.Base(run.Source),
			status,
			run.Statements,
			run.Entities,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(run),
		})
	}

	if markdown {
		tw.RenderMarkdown()
	} else {
		tw.Render()
	}
}

func styledStatus(r *output.Renderer, status core.RunStatus) string {
	styles := r.Styles()
	switch status {
	case core.RunStatusSuccess:
		return styles.StatusSuccess.Render(string(status))
	case core.RunStatusFailed:
		return styles.StatusFailed.Render(string(status))
	case core.RunStatusPartial:
		return styles.Warning.Render(string(status))
	default:
		return string(status)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runDuration(run *core.Run) string {
	if run.CompletedAt == nil {
		return "-"
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
