package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "salesight %s\n", version)
			fmt.Fprintf(w, "  build date: %s\n", buildDate)
			fmt.Fprintf(w, "  commit:     %s\n", gitCommit)
		},
	}
}
