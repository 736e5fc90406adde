package commands

import (
	"github.com/spf13/cobra"
)

// NewCoverageCmd creates the coverage command: inventory health only.
func NewCoverageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Show inventory turnover and coverage days",
		Long: `Coverage joins on-hand stock against sales velocity per material and
reports turnover and coverage days. Materials with no sales velocity show
infinite coverage, which is distinct from any large finite number.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := runAnalysis(cmd)
			if err != nil {
				return err
			}
			cfg := configFrom(cmd)
			return renderInventory(cmd.OutOrStdout(), cfg.OutputFormat, report)
		},
	}
	addFilterFlags(cmd)
	return cmd
}
