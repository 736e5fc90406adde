package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/salesight-labs/salesight/pkg/core"
)

// Package-level koanf instance and config file tracking.
var (
	k              = koanf.New(".")
	configFileUsed string
)

// findConfigFile finds the config file to use.
// Priority: explicit path > salesight.yaml > salesight.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"salesight.yaml", "salesight.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// GetConfigFileUsed returns the config file path used by the last load.
func GetConfigFileUsed() string {
	return configFileUsed
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
}

// LoadConfig loads configuration from file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Threshold validation happens here, before any computation can run.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Defaults
	defaults := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"data_dir":    defaults.DataDir,
		"granularity": defaults.Granularity,
		"output":      defaults.OutputFormat,
		"verbose":     false,

		"thresholds.quadrant.share_threshold_pct":  defaults.Thresholds.Quadrant.ShareThresholdPct,
		"thresholds.quadrant.growth_threshold_pct": defaults.Thresholds.Quadrant.GrowthThresholdPct,
		"thresholds.tier.recency_active_days":      defaults.Thresholds.Tier.RecencyActiveDays,
		"thresholds.tier.recency_cooling_days":     defaults.Thresholds.Tier.RecencyCoolingDays,
		"thresholds.tier.frequency_repeat":         defaults.Thresholds.Tier.FrequencyRepeat,
		"thresholds.tier.frequency_core":           defaults.Thresholds.Tier.FrequencyCore,
		"thresholds.tier.monetary_mid":             defaults.Thresholds.Tier.MonetaryMid,
		"thresholds.tier.monetary_high":            defaults.Thresholds.Tier.MonetaryHigh,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables (SALESIGHT_ prefix)
	// Transform: SALESIGHT_DATA_DIR -> data_dir
	if err := k.Load(env.Provider("SALESIGHT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SALESIGHT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// 4. CLI flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := &Config{Thresholds: core.DefaultThresholds()}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
