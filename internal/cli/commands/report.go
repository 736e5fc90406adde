package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/salesight-labs/salesight/internal/engine"
)

// NewReportCmd creates the report command: the full dashboard as tables.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute and render the full analytics report",
		Long: `Report loads the snapshot, applies the filter predicates and renders
every analytics section: sales by period, target achievement, penetration,
dependency concentration, customer segments, product quadrants and
inventory health.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := runAnalysis(cmd)
			if err != nil {
				return err
			}

			cfg := configFrom(cmd)
			w := cmd.OutOrStdout()
			if cfg.OutputFormat == "json" {
				return renderJSON(w, report)
			}
			return renderFullReport(w, cfg.OutputFormat, report)
		},
	}
	addFilterFlags(cmd)
	return cmd
}

func renderFullReport(w io.Writer, format string, report *engine.Report) error {
	sections := []func() error{
		func() error { return renderSalesByPeriod(w, format, report) },
		func() error { return renderAchievement(w, format, report) },
		func() error { return renderPenetration(w, format, report) },
		func() error { return renderDependency(w, format, report) },
		func() error { return renderSegments(w, format, report) },
		func() error { return renderQuadrants(w, format, report) },
		func() error { return renderInventory(w, format, report) },
	}
	for i, section := range sections {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		if err := section(); err != nil {
			return err
		}
	}
	if report.MissingKeyRows > 0 {
		_, _ = fmt.Fprintf(w, "\nwarning: %d rows excluded from aggregation (missing group keys)\n", report.MissingKeyRows)
	}
	return nil
}

func renderSalesByPeriod(w io.Writer, format string, report *engine.Report) error {
	rows := make([][]string, 0, len(report.SalesByPeriod))
	for _, m := range report.SalesByPeriod {
		rows = append(rows, []string{
			m.Period,
			formatAmount(m.SumAmount),
			fmt.Sprintf("%d", m.Count),
			formatAmount(m.Mean),
		})
	}
	return renderRows(w, format, "Sales by period",
		[]string{"period", "amount", "orders", "mean"}, rows, report.SalesByPeriod)
}

func renderAchievement(w io.Writer, format string, report *engine.Report) error {
	rows := make([][]string, 0, len(report.Achievement))
	for _, a := range report.Achievement {
		rows = append(rows, []string{
			a.OwnerID,
			a.Period.String(),
			formatAmount(a.Actual),
			formatOptionalAmount(a.Target),
			formatPercent(a.Rate),
		})
	}
	return renderRows(w, format, "Target achievement",
		[]string{"owner", "period", "actual", "target", "rate"}, rows, report.Achievement)
}

func renderPenetration(w io.Writer, format string, report *engine.Report) error {
	p := report.Penetration
	note := ""
	if p.NoDenominator {
		note = "no valid customers"
	}
	rows := [][]string{{
		fmt.Sprintf("%d", p.Purchasers),
		fmt.Sprintf("%d", p.Universe),
		formatPercent(p.Rate),
		note,
	}}
	return renderRows(w, format, "New-product penetration",
		[]string{"purchasers", "valid customers", "rate", "note"}, rows, p)
}

func renderDependency(w io.Writer, format string, report *engine.Report) error {
	rows := make([][]string, 0, len(report.Dependency))
	for _, d := range report.Dependency {
		top := ""
		if len(d.Dependency.Shares) > 0 {
			top = d.Dependency.Shares[0].CustomerID
		}
		rows = append(rows, []string{
			d.OwnerID,
			top,
			formatPercent(d.Dependency.MaxDependency),
			formatPercent(d.Dependency.Stability),
		})
	}
	return renderRows(w, format, "Customer dependency",
		[]string{"owner", "top customer", "max dependency", "stability"}, rows, report.Dependency)
}

func renderInventory(w io.Writer, format string, report *engine.Report) error {
	rows := make([][]string, 0, len(report.Inventory))
	for _, inv := range report.Inventory {
		rows = append(rows, []string{
			inv.MaterialID,
			formatAmount(inv.OnHandQty),
			formatAmount(inv.AvgDailySalesQty),
			formatDays(inv.Turnover),
			formatDays(inv.CoverageDays),
		})
	}
	return renderRows(w, format, "Inventory health",
		[]string{"material", "on hand", "avg daily sales", "turnover", "coverage days"}, rows, report.Inventory)
}
