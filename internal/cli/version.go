package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	buildinfo "github.com/kailas-cloud/searchapi/internal/version"
)

// VersionCmd prints build metadata.
func VersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "search %s (commit %s, built %s)\n",
				version, buildinfo.Commit, buildinfo.Date)
		},
	}
}
