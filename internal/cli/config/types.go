// Package config provides configuration management for the SaleSight CLI.
//
// Classification thresholds live in pkg/core so the engine can be embedded
// without the CLI; this package wraps them with the CLI-facing options and
// the koanf loading pipeline.
package config

import (
	"github.com/salesight-labs/salesight/pkg/core"
)

// Defaults for CLI options.
const (
	DefaultDataDir     = "data"
	DefaultGranularity = "month"
	DefaultOutput      = "table"
)

// Config holds all CLI configuration options.
type Config struct {
	// DataDir is the directory holding the CSV snapshot tables.
	DataDir string `koanf:"data_dir"`
	// Granularity is the period bucket width: month, quarter or year.
	Granularity string `koanf:"granularity"`
	// OutputFormat selects the renderer: table, json or csv.
	OutputFormat string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`

	// Thresholds configures the classification engine.
	Thresholds core.Thresholds `koanf:"thresholds"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		DataDir:      DefaultDataDir,
		Granularity:  DefaultGranularity,
		OutputFormat: DefaultOutput,
		Thresholds:   core.DefaultThresholds(),
	}
}
