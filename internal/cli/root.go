// Package cli provides the command-line interface for SaleSight.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/salesight-labs/salesight/internal/cli/commands"
	"github.com/salesight-labs/salesight/internal/cli/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "salesight",
		Short: "SaleSight - Business Analytics Metrics Engine",
		Long: `SaleSight computes business-analytics metrics from tabular sales,
inventory, promotion and target snapshots: achievement rates, customer
tiering, product quadrants, penetration, dependency concentration and
inventory coverage.

It reads CSV snapshot tables from a data directory, runs the deterministic
aggregation pipeline and renders plain numeric tables.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					logger.Debug("using config file", "path", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./salesight.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Path to the CSV snapshot directory")
	rootCmd.PersistentFlags().String("granularity", "", "Period bucket: month, quarter or year")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: table, json or csv")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		commands.NewReportCmd(),
		commands.NewSegmentsCmd(),
		commands.NewQuadrantsCmd(),
		commands.NewCoverageCmd(),
		commands.NewWatchCmd(),
		commands.NewVersionCmd(Version, BuildDate, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("command failed", "error", err)
		os.Exit(1)
	}
}
