package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/salesight-labs/salesight/internal/engine"
	"github.com/salesight-labs/salesight/internal/loader"
)

// addFilterFlags registers the filter predicate flags shared by all analysis
// commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("region", "", "Filter by region (exact match)")
	cmd.Flags().String("salesperson", "", "Filter by salesperson (exact match)")
	cmd.Flags().String("customer", "", "Filter by customer code, falling back to name")
	cmd.Flags().String("product", "", "Filter by product code, falling back to name")
	cmd.Flags().String("from", "", "Start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End date, inclusive (YYYY-MM-DD)")
}

// predicatesFromFlags builds the engine predicate set from command flags.
func predicatesFromFlags(cmd *cobra.Command) (engine.FilterPredicates, error) {
	var p engine.FilterPredicates
	p.Region, _ = cmd.Flags().GetString("region")
	p.Salesperson, _ = cmd.Flags().GetString("salesperson")
	p.Customer, _ = cmd.Flags().GetString("customer")
	p.Product, _ = cmd.Flags().GetString("product")

	if raw, _ := cmd.Flags().GetString("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return p, fmt.Errorf("invalid --from: %w", err)
		}
		p.DateRange.From = t
	}
	if raw, _ := cmd.Flags().GetString("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return p, fmt.Errorf("invalid --to: %w", err)
		}
		p.DateRange.To = t
	}
	if err := p.DateRange.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// runAnalysis performs the full load-filter-analyze cycle for one command
// invocation and returns the report.
func runAnalysis(cmd *cobra.Command) (*engine.Report, error) {
	cfg := configFrom(cmd)
	logger := loggerFrom(cmd)

	if err := cfg.ValidateDataDir(); err != nil {
		return nil, err
	}

	predicates, err := predicatesFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	granularity, err := engine.ParseGranularity(cfg.Granularity)
	if err != nil {
		return nil, err
	}

	snap, err := loader.New(cfg.DataDir, logger).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	eng, err := engine.New(engine.Config{Thresholds: cfg.Thresholds, Logger: logger})
	if err != nil {
		return nil, err
	}

	session := engine.NewSession(snap, predicates, granularity)
	return eng.Analyze(cmd.Context(), session)
}
