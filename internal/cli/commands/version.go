package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqltrail/internal/cli/output"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sqltrail version and build information.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContextWithoutEngine(cmd).Renderer

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(output.VersionOutput{Version: version, Commit: commit, Date: date})
			}

			r.Printf("sqltrail v%s\n", version)
			if commit != "" {
				r.Printf("commit: %s\n", commit)
			}
			if date != "" {
				r.Printf("built: %s\n", date)
			}
			return nil
		},
	}
}
