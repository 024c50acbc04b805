package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo carries version metadata stamped into the binary at build time.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sqldash version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "sqldash v%s\n", info.Version)
			_, _ = fmt.Fprintln(out, "SQL dashboard backend built with Go")
			if info.GitCommit != "" && info.GitCommit != "unknown" {
				_, _ = fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
			}
			if info.BuildDate != "" && info.BuildDate != "unknown" {
				_, _ = fmt.Fprintf(out, "built: %s\n", info.BuildDate)
			}
		},
	}
}
