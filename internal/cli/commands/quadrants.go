package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/salesight-labs/salesight/internal/engine"
)

// NewQuadrantsCmd creates the quadrants command: BCG product classification.
func NewQuadrantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quadrants",
		Short: "Classify products into BCG quadrants",
		Long: `Quadrants assigns every sold product to Star, CashCow, QuestionMark
or Dog from its share of total revenue and its period-over-period growth.
Growth is derived from the two most recent period buckets; products with no
prior-period baseline classify at zero growth.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := runAnalysis(cmd)
			if err != nil {
				return err
			}
			cfg := configFrom(cmd)
			return renderQuadrants(cmd.OutOrStdout(), cfg.OutputFormat, report)
		},
	}
	addFilterFlags(cmd)
	return cmd
}

func renderQuadrants(w io.Writer, format string, report *engine.Report) error {
	rows := make([][]string, 0, len(report.Quadrants))
	for _, q := range report.Quadrants {
		rows = append(rows, []string{
			q.ProductID,
			fmt.Sprintf("%.2f%%", q.Share),
			fmt.Sprintf("%.1f%%", q.GrowthRate),
			string(q.Quadrant),
		})
	}
	return renderRows(w, format, "Product quadrants",
		[]string{"product", "share", "growth", "quadrant"}, rows, report.Quadrants)
}
