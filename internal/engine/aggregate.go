package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesight-labs/salesight/pkg/core"
)

// Granularity is a period bucket width.
type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// ParseGranularity validates a granularity name.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(s)) {
	case GranularityMonth:
		return GranularityMonth, nil
	case GranularityQuarter:
		return GranularityQuarter, nil
	case GranularityYear:
		return GranularityYear, nil
	default:
		return "", fmt.Errorf("unknown granularity %q (want month, quarter or year)", s)
	}
}

// Bucket truncates t to the first day of its bucket. All dates inside the
// same calendar month, quarter or year collapse to the same canonical time.
func (g Granularity) Bucket(t time.Time) time.Time {
	switch g {
	case GranularityQuarter:
		q := (int(t.Month()) - 1) / 3
		return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
	case GranularityYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// Label renders the canonical bucket label for t.
func (g Granularity) Label(t time.Time) string {
	return g.Bucket(t).Format("2006-01-02")
}

// GroupKey names a grouping dimension for Aggregate.
type GroupKey string

const (
	KeyProduct     GroupKey = "product"
	KeyCustomer    GroupKey = "customer"
	KeyRegion      GroupKey = "region"
	KeySalesperson GroupKey = "salesperson"
	KeyPeriod      GroupKey = "period"
)

// Measure selects which numeric field Aggregate sums.
type Measure string

const (
	MeasureAmount   Measure = "amount"
	MeasureQuantity Measure = "quantity"
)

// AggregateResult is the output of one Aggregate call: the grouped rows plus
// data-quality counters for rows that could not participate.
type AggregateResult struct {
	Metrics []core.AggregatedMetric
	// MissingKeyRows counts records excluded because a requested group key
	// was empty on them. A warning, never an error.
	MissingKeyRows int
}

// Total sums the SumAmount column across all groups.
func (r AggregateResult) Total() decimal.Decimal {
	total := decimal.Zero
	for _, m := range r.Metrics {
		total = total.Add(m.SumAmount)
	}
	return total
}

// Aggregate groups sales rows by the requested keys and computes sum, count
// and mean of the chosen measure per group. Records lacking a value for a
// requested key are excluded from the result and counted, not fatal.
//
// Results are sorted by entity ID then period, so identical inputs always
// produce identical output.
func Aggregate(logger *slog.Logger, records []core.SalesRecord, keys []GroupKey, measure Measure, granularity Granularity) AggregateResult {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if granularity == "" {
		granularity = GranularityMonth
	}

	type bucket struct {
		entityID string
		period   string
		dims     map[string]string
		sum      decimal.Decimal
		count    int
	}

	buckets := make(map[string]*bucket)
	missing := 0

rows:
	for _, rec := range records {
		dims := make(map[string]string, len(keys))
		entityParts := make([]string, 0, len(keys))
		period := ""
		for _, key := range keys {
			val := keyValue(rec, key, granularity)
			if val == "" {
				missing++
				continue rows
			}
			dims[string(key)] = val
			if key == KeyPeriod {
				period = val
			} else {
				entityParts = append(entityParts, val)
			}
		}

		entityID := strings.Join(entityParts, "|")
		mapKey := entityID + "\x00" + period
		b, ok := buckets[mapKey]
		if !ok {
			b = &bucket{entityID: entityID, period: period, dims: dims, sum: decimal.Zero}
			buckets[mapKey] = b
		}
		b.sum = b.sum.Add(measureValue(rec, measure))
		b.count++
	}

	if missing > 0 {
		logger.Warn("records excluded from aggregation: missing group key",
			"excluded", missing, "keys", keys)
	}

	metrics := make([]core.AggregatedMetric, 0, len(buckets))
	for _, b := range buckets {
		mean := decimal.Zero
		if b.count > 0 {
			mean = b.sum.Div(decimal.NewFromInt(int64(b.count)))
		}
		metrics = append(metrics, core.AggregatedMetric{
			EntityID:   b.entityID,
			Period:     b.period,
			Dimensions: b.dims,
			SumAmount:  b.sum,
			Count:      b.count,
			Mean:       mean,
		})
	}
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].EntityID != metrics[j].EntityID {
			return metrics[i].EntityID < metrics[j].EntityID
		}
		return metrics[i].Period < metrics[j].Period
	})

	return AggregateResult{Metrics: metrics, MissingKeyRows: missing}
}

func keyValue(rec core.SalesRecord, key GroupKey, g Granularity) string {
	switch key {
	case KeyProduct:
		return rec.ProductID
	case KeyCustomer:
		return rec.CustomerID
	case KeyRegion:
		return rec.Region
	case KeySalesperson:
		return rec.Salesperson
	case KeyPeriod:
		if rec.Date.IsZero() {
			return ""
		}
		return g.Label(rec.Date)
	default:
		return ""
	}
}

func measureValue(rec core.SalesRecord, m Measure) decimal.Decimal {
	if m == MeasureQuantity {
		return rec.Quantity
	}
	return rec.Amount
}

// OwnerActual is one row of the sales-by-owner-and-period view after the
// left-outer join against the targets table. Target is nil when no target row
// matched; downstream that propagates as an undefined achievement rate, not
// zero.
type OwnerActual struct {
	OwnerID string
	Period  core.YearMonth
	Actual  decimal.Decimal
	Target  *decimal.Decimal
}

// JoinTargets left-joins monthly sales actuals per owner against the targets
// table on (owner, period). Sales is the primary side: every actual row is
// kept, and target rows with no matching actuals do not appear.
func JoinTargets(logger *slog.Logger, records []core.SalesRecord, targets []core.TargetRecord, owner GroupKey) []OwnerActual {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	targetIdx := make(map[string]decimal.Decimal, len(targets))
	for _, t := range targets {
		if t.OwnerID == "" {
			logger.Warn("target row excluded from join: missing owner id", "period", t.Period)
			continue
		}
		targetIdx[t.OwnerID+"\x00"+t.Period.String()] = t.TargetAmount
	}

	agg := Aggregate(logger, records, []GroupKey{owner, KeyPeriod}, MeasureAmount, GranularityMonth)

	out := make([]OwnerActual, 0, len(agg.Metrics))
	for _, m := range agg.Metrics {
		if len(m.Period) < 7 {
			continue
		}
		period, err := core.ParseYearMonth(m.Period[:7])
		if err != nil {
			continue
		}
		row := OwnerActual{OwnerID: m.EntityID, Period: period, Actual: m.SumAmount}
		if target, ok := targetIdx[m.EntityID+"\x00"+period.String()]; ok {
			t := target
			row.Target = &t
		}
		out = append(out, row)
	}
	return out
}
