package engine

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesight-labs/salesight/pkg/core"
)

// ClassifyProducts assigns every product in the sales table to a BCG quadrant
// from its share of the grand total and its growth rate.
//
// Growth rates are an injected input: either externally supplied or derived
// deterministically via GrowthByProduct. Products absent from the growth map
// are treated as zero growth. An empty sales table yields an empty result.
func ClassifyProducts(records []core.SalesRecord, growth map[string]float64, cfg core.QuadrantConfig) []core.ProductQuadrant {
	byProduct := make(map[string]decimal.Decimal)
	grand := decimal.Zero
	for _, r := range records {
		if r.ProductID == "" {
			continue
		}
		byProduct[r.ProductID] = byProduct[r.ProductID].Add(r.Amount)
		grand = grand.Add(r.Amount)
	}
	if len(byProduct) == 0 || grand.IsZero() {
		return nil
	}

	out := make([]core.ProductQuadrant, 0, len(byProduct))
	for id, amount := range byProduct {
		share := amount.Div(grand).InexactFloat64() * 100
		g := growth[id]
		out = append(out, core.ProductQuadrant{
			ProductID:  id,
			Share:      share,
			GrowthRate: g,
			Quadrant:   assignQuadrant(share, g, cfg),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// assignQuadrant is total: every (share, growth) pair lands in exactly one
// quadrant.
func assignQuadrant(share, growth float64, cfg core.QuadrantConfig) core.Quadrant {
	highShare := share >= cfg.ShareThresholdPct
	highGrowth := growth >= cfg.GrowthThresholdPct
	switch {
	case highShare && highGrowth:
		return core.QuadrantStar
	case highShare:
		return core.QuadrantCashCow
	case highGrowth:
		return core.QuadrantQuestionMark
	default:
		return core.QuadrantDog
	}
}

// GrowthByProduct derives period-over-period growth rates (percent) per
// product by comparing the latest period bucket against the one before it.
// Products with no sales in the prior bucket have no baseline and are left
// out of the map; the caller decides how to classify them.
func GrowthByProduct(logger *slog.Logger, records []core.SalesRecord, granularity Granularity) map[string]float64 {
	agg := Aggregate(logger, records, []GroupKey{KeyProduct, KeyPeriod}, MeasureAmount, granularity)

	periods := make([]string, 0, 8)
	seen := make(map[string]bool)
	byKey := make(map[string]decimal.Decimal, len(agg.Metrics))
	for _, m := range agg.Metrics {
		if !seen[m.Period] {
			seen[m.Period] = true
			periods = append(periods, m.Period)
		}
		byKey[m.EntityID+"\x00"+m.Period] = m.SumAmount
	}
	if len(periods) < 2 {
		return map[string]float64{}
	}
	sort.Strings(periods)
	latest, prior := periods[len(periods)-1], periods[len(periods)-2]

	growth := make(map[string]float64)
	for _, m := range agg.Metrics {
		if m.Period != latest {
			continue
		}
		base, ok := byKey[m.EntityID+"\x00"+prior]
		if !ok || base.IsZero() {
			continue
		}
		growth[m.EntityID] = m.SumAmount.Sub(base).Div(base).InexactFloat64() * 100
	}
	return growth
}

// ClassifyCustomers tiers every customer with at least one transaction inside
// the window using recency, frequency and monetary value. Customers with no
// window transactions are not tiered at all rather than defaulted to AtRisk;
// absence from the result is the explicit signal.
//
// Each dimension scores 1-3 against the configured cut points and the tier
// follows from the composite score, so improving any single dimension never
// demotes a customer.
func ClassifyCustomers(records []core.SalesRecord, window core.DateRange, asOf time.Time, cfg core.TierConfig) []core.CustomerSegment {
	type rfm struct {
		last     time.Time
		count    int
		monetary decimal.Decimal
	}
	byCustomer := make(map[string]*rfm)
	for _, r := range records {
		if r.CustomerID == "" || !window.Contains(r.Date) {
			continue
		}
		c, ok := byCustomer[r.CustomerID]
		if !ok {
			c = &rfm{monetary: decimal.Zero}
			byCustomer[r.CustomerID] = c
		}
		if r.Date.After(c.last) {
			c.last = r.Date
		}
		c.count++
		c.monetary = c.monetary.Add(r.Amount)
	}

	out := make([]core.CustomerSegment, 0, len(byCustomer))
	for id, c := range byCustomer {
		recency := int(asOf.Sub(c.last).Hours() / 24)
		if recency < 0 {
			recency = 0
		}
		r := scoreRecency(recency, cfg)
		f := scoreFrequency(c.count, cfg)
		m := scoreMonetary(c.monetary, cfg)
		total := r + f + m

		out = append(out, core.CustomerSegment{
			CustomerID: id,
			Tier:       tierForScore(total),
			ValueScore: float64(total-3) / 6 * 100,
			RiskScore:  float64(3-r) / 2 * 100,
			Recency:    recency,
			Frequency:  c.count,
			Monetary:   c.monetary,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}

func scoreRecency(days int, cfg core.TierConfig) int {
	switch {
	case days <= cfg.RecencyActiveDays:
		return 3
	case days <= cfg.RecencyCoolingDays:
		return 2
	default:
		return 1
	}
}

func scoreFrequency(count int, cfg core.TierConfig) int {
	switch {
	case count >= cfg.FrequencyCore:
		return 3
	case count >= cfg.FrequencyRepeat:
		return 2
	default:
		return 1
	}
}

func scoreMonetary(m decimal.Decimal, cfg core.TierConfig) int {
	v := m.InexactFloat64()
	switch {
	case v >= cfg.MonetaryHigh:
		return 3
	case v >= cfg.MonetaryMid:
		return 2
	default:
		return 1
	}
}

// tierForScore maps the composite 3-9 score onto the five tiers. The mapping
// is strictly non-decreasing in the score, which is what keeps tiering
// monotonic in each RFM dimension.
func tierForScore(total int) core.CustomerTier {
	switch {
	case total >= 9:
		return core.TierDiamond
	case total >= 8:
		return core.TierGold
	case total >= 6:
		return core.TierSilver
	case total >= 5:
		return core.TierPotential
	default:
		return core.TierAtRisk
	}
}
