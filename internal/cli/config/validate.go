package config

import (
	"fmt"
	"os"
)

// Validate checks if the configuration is valid. Threshold errors are fatal:
// no analysis runs against a broken configuration.
func (c *Config) Validate() error {
	switch c.Granularity {
	case "month", "quarter", "year":
	default:
		return fmt.Errorf("granularity must be month, quarter or year, got %q", c.Granularity)
	}
	switch c.OutputFormat {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("output must be table, json or csv, got %q", c.OutputFormat)
	}
	return c.Thresholds.Validate()
}

// ValidateDataDir checks that the snapshot directory exists.
func (c *Config) ValidateDataDir() error {
	if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s\nHint: Create the directory or use --data-dir to specify a different path", c.DataDir)
	}
	return nil
}
