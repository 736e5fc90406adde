package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds_Valid(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())
}

func TestQuadrantConfig_Validate(t *testing.T) {
	cfg := DefaultQuadrantConfig()
	cfg.ShareThresholdPct = -1
	assert.Error(t, cfg.Validate())

	cfg.ShareThresholdPct = 101
	assert.Error(t, cfg.Validate())

	// Negative growth thresholds are legal: growth can be negative.
	cfg = DefaultQuadrantConfig()
	cfg.GrowthThresholdPct = -10
	assert.NoError(t, cfg.Validate())
}

func TestTierConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TierConfig)
	}{
		{"zero recency", func(c *TierConfig) { c.RecencyActiveDays = 0 }},
		{"overlapping recency bands", func(c *TierConfig) { c.RecencyCoolingDays = c.RecencyActiveDays }},
		{"zero repeat frequency", func(c *TierConfig) { c.FrequencyRepeat = 0 }},
		{"inverted frequency bands", func(c *TierConfig) { c.FrequencyCore = c.FrequencyRepeat }},
		{"negative monetary", func(c *TierConfig) { c.MonetaryMid = -5 }},
		{"inverted monetary bands", func(c *TierConfig) { c.MonetaryHigh = c.MonetaryMid }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTierConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestThresholds_ValidatePropagates(t *testing.T) {
	cfg := DefaultThresholds()
	cfg.Tier.FrequencyCore = 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tier thresholds")
}
