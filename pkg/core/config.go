package core

import (
	"fmt"
)

// QuadrantConfig holds the BCG-style classification thresholds.
type QuadrantConfig struct {
	// ShareThresholdPct is the market share (percent of grand total) at or
	// above which a product counts as high-share.
	ShareThresholdPct float64 `koanf:"share_threshold_pct"`
	// GrowthThresholdPct is the period-over-period growth (percent) at or
	// above which a product counts as high-growth.
	GrowthThresholdPct float64 `koanf:"growth_threshold_pct"`
}

// DefaultQuadrantConfig returns the standard 1.5% share / 20% growth cuts.
func DefaultQuadrantConfig() QuadrantConfig {
	return QuadrantConfig{
		ShareThresholdPct:  1.5,
		GrowthThresholdPct: 20,
	}
}

// Validate fails fast on nonsensical thresholds.
func (c QuadrantConfig) Validate() error {
	if c.ShareThresholdPct < 0 || c.ShareThresholdPct > 100 {
		return fmt.Errorf("share_threshold_pct must be within [0,100], got %v", c.ShareThresholdPct)
	}
	return nil
}

// TierConfig holds the RFM cut points for customer tiering.
//
// Each dimension is scored 1-3 against two cut points and the tier is assigned
// from the composite score, which keeps tiering monotonic in each of R, F and
// M: improving any single dimension can never demote a customer.
type TierConfig struct {
	// RecencyActiveDays is the last-purchase age (days) at or under which a
	// customer is fully active.
	RecencyActiveDays int `koanf:"recency_active_days"`
	// RecencyCoolingDays is the last-purchase age at or under which a
	// customer is cooling; beyond it the customer is stale.
	RecencyCoolingDays int `koanf:"recency_cooling_days"`
	// FrequencyRepeat is the window transaction count from which a customer
	// counts as repeat.
	FrequencyRepeat int `koanf:"frequency_repeat"`
	// FrequencyCore is the window transaction count from which a customer
	// counts as core.
	FrequencyCore int `koanf:"frequency_core"`
	// MonetaryMid and MonetaryHigh are the window revenue cut points for
	// mid-value and high-value customers.
	MonetaryMid  float64 `koanf:"monetary_mid"`
	MonetaryHigh float64 `koanf:"monetary_high"`
}

// DefaultTierConfig returns 30/90 day recency, 2/5 frequency and 5k/50k
// monetary cut points.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		RecencyActiveDays:  30,
		RecencyCoolingDays: 90,
		FrequencyRepeat:    2,
		FrequencyCore:      5,
		MonetaryMid:        5_000,
		MonetaryHigh:       50_000,
	}
}

// Validate rejects overlapping or inverted cut points before any
// classification runs.
func (c TierConfig) Validate() error {
	if c.RecencyActiveDays <= 0 {
		return fmt.Errorf("recency_active_days must be positive, got %d", c.RecencyActiveDays)
	}
	if c.RecencyCoolingDays <= c.RecencyActiveDays {
		return fmt.Errorf("recency_cooling_days (%d) must exceed recency_active_days (%d)",
			c.RecencyCoolingDays, c.RecencyActiveDays)
	}
	if c.FrequencyRepeat < 1 {
		return fmt.Errorf("frequency_repeat must be at least 1, got %d", c.FrequencyRepeat)
	}
	if c.FrequencyCore <= c.FrequencyRepeat {
		return fmt.Errorf("frequency_core (%d) must exceed frequency_repeat (%d)",
			c.FrequencyCore, c.FrequencyRepeat)
	}
	if c.MonetaryMid < 0 {
		return fmt.Errorf("monetary_mid must not be negative, got %v", c.MonetaryMid)
	}
	if c.MonetaryHigh <= c.MonetaryMid {
		return fmt.Errorf("monetary_high (%v) must exceed monetary_mid (%v)",
			c.MonetaryHigh, c.MonetaryMid)
	}
	return nil
}

// Thresholds bundles every classification threshold the engine consumes.
type Thresholds struct {
	Quadrant QuadrantConfig `koanf:"quadrant"`
	Tier     TierConfig     `koanf:"tier"`
}

// DefaultThresholds returns the default classification configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Quadrant: DefaultQuadrantConfig(),
		Tier:     DefaultTierConfig(),
	}
}

// Validate checks every nested threshold set. Any failure is a configuration
// error and aborts the computation request before it starts.
func (t Thresholds) Validate() error {
	if err := t.Quadrant.Validate(); err != nil {
		return fmt.Errorf("quadrant thresholds: %w", err)
	}
	if err := t.Tier.Validate(); err != nil {
		return fmt.Errorf("tier thresholds: %w", err)
	}
	return nil
}
