package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/salesight-labs/salesight/internal/engine"
)

// NewSegmentsCmd creates the segments command: RFM customer tiers only.
func NewSegmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Classify customers into RFM value tiers",
		Long: `Segments tiers every customer with at least one transaction in the
analysis window into Diamond, Gold, Silver, Potential or AtRisk using
recency, frequency and monetary value. Customers without window
transactions are not listed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := runAnalysis(cmd)
			if err != nil {
				return err
			}
			cfg := configFrom(cmd)
			return renderSegments(cmd.OutOrStdout(), cfg.OutputFormat, report)
		},
	}
	addFilterFlags(cmd)
	return cmd
}

func renderSegments(w io.Writer, format string, report *engine.Report) error {
	rows := make([][]string, 0, len(report.Segments))
	for _, s := range report.Segments {
		rows = append(rows, []string{
			s.CustomerID,
			string(s.Tier),
			fmt.Sprintf("%.0f", s.ValueScore),
			fmt.Sprintf("%.0f", s.RiskScore),
			fmt.Sprintf("%d", s.Recency),
			fmt.Sprintf("%d", s.Frequency),
			formatAmount(s.Monetary),
		})
	}
	return renderRows(w, format, "Customer segments",
		[]string{"customer", "tier", "value", "risk", "recency", "frequency", "monetary"},
		rows, report.Segments)
}
