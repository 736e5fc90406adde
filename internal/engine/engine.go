package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salesight-labs/salesight/pkg/core"
)

// Engine runs the full analysis pipeline over an immutable snapshot. It is
// stateless between calls: the snapshot, filters and window all arrive on the
// Session, so concurrent sessions can share one Engine and one snapshot.
type Engine struct {
	thresholds core.Thresholds
	logger     *slog.Logger
}

// Config holds engine construction parameters.
type Config struct {
	// Thresholds is the classification configuration. Validated on New;
	// invalid thresholds abort before any computation.
	Thresholds core.Thresholds
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// New validates the threshold configuration and returns an engine.
// Configuration errors are the only fatal error class in this package.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Engine{thresholds: cfg.Thresholds, logger: logger}, nil
}

// Session is one analysis invocation: a snapshot plus the explicit request
// parameters. The engine reads it, never writes it.
type Session struct {
	ID          uuid.UUID
	Snapshot    *core.Snapshot
	Predicates  FilterPredicates
	Granularity Granularity
	// Window bounds the RFM classification window. Zero means the whole
	// filtered range.
	Window core.DateRange
	// AsOf anchors recency. Zero means the latest sale date in the snapshot.
	AsOf time.Time
}

// NewSession builds a session with a fresh ID over the given snapshot.
func NewSession(snap *core.Snapshot, predicates FilterPredicates, granularity Granularity) *Session {
	return &Session{
		ID:          uuid.New(),
		Snapshot:    snap,
		Predicates:  predicates,
		Granularity: granularity,
	}
}

// AchievementRow is one owner-period actual with its target and rate.
type AchievementRow struct {
	OwnerID string
	Period  core.YearMonth
	Actual  decimal.Decimal
	Target  *decimal.Decimal
	Rate    core.Ratio
}

// OwnerConcentration pairs an owner with the dependency profile of their book.
type OwnerConcentration struct {
	OwnerID    string
	Dependency DependencyResult
}

// InventoryHealthRow is the stock-velocity view for one material.
type InventoryHealthRow struct {
	MaterialID        string
	OnHandQty         decimal.Decimal
	AvgDailySalesQty  decimal.Decimal
	AvgPeriodSalesQty decimal.Decimal
	Turnover          core.Ratio
	CoverageDays      core.Ratio
}

// Report is the full output of one analysis session: plain numeric tables
// and records, ready for whatever presentation layer consumes them.
type Report struct {
	SessionID   uuid.UUID
	GeneratedAt time.Time

	SalesByPeriod []core.AggregatedMetric
	SalesByRegion []core.AggregatedMetric

	Achievement []AchievementRow
	Penetration PenetrationResult
	Dependency  []OwnerConcentration
	Segments    []core.CustomerSegment
	Quadrants   []core.ProductQuadrant
	Inventory   []InventoryHealthRow

	// MissingKeyRows counts sales rows excluded from any aggregation in this
	// session because a required group key was empty.
	MissingKeyRows int
}

// Analyze runs filter, aggregation, classification and the KPI calculators
// for one session. Empty source tables produce empty sections, never errors.
func (e *Engine) Analyze(ctx context.Context, s *Session) (*Report, error) {
	if s == nil || s.Snapshot == nil {
		return nil, fmt.Errorf("analysis session requires a snapshot")
	}
	if err := s.Predicates.DateRange.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := s.Window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := e.logger.With("session", s.ID.String())
	snap := s.Snapshot
	granularity := s.Granularity
	if granularity == "" {
		granularity = GranularityMonth
	}

	sales := ApplyFilters(snap.Sales, s.Predicates)
	logger.Debug("filtered sales", "in", len(snap.Sales), "out", len(sales))

	report := &Report{
		SessionID:   s.ID,
		GeneratedAt: time.Now().UTC(),
	}

	byPeriod := Aggregate(logger, sales, []GroupKey{KeyPeriod}, MeasureAmount, granularity)
	byRegion := Aggregate(logger, sales, []GroupKey{KeyRegion, KeyPeriod}, MeasureAmount, granularity)
	report.SalesByPeriod = byPeriod.Metrics
	report.SalesByRegion = byRegion.Metrics
	report.MissingKeyRows = byPeriod.MissingKeyRows + byRegion.MissingKeyRows

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Achievement: owner is the salesperson, monthly.
	for _, row := range JoinTargets(logger, sales, snap.Targets, KeySalesperson) {
		report.Achievement = append(report.Achievement, AchievementRow{
			OwnerID: row.OwnerID,
			Period:  row.Period,
			Actual:  row.Actual,
			Target:  row.Target,
			Rate:    AchievementRate(row.Actual, row.Target).Clamp(0, 100),
		})
	}

	valid := snap.ValidCustomers()
	report.Penetration = PenetrationRate(sales, snap.PromotedProducts(), valid)
	if report.Penetration.NoDenominator {
		logger.Warn("penetration rate has no denominator: no valid customers in snapshot")
	}

	report.Dependency = e.ownerConcentrations(sales, valid)

	window, asOf := s.Window, s.AsOf
	if window.IsZero() {
		window = salesSpan(sales)
	}
	if asOf.IsZero() {
		asOf = window.To
	}
	report.Segments = ClassifyCustomers(sales, window, asOf, e.thresholds.Tier)

	growth := GrowthByProduct(logger, sales, granularity)
	report.Quadrants = ClassifyProducts(sales, growth, e.thresholds.Quadrant)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Inventory = e.inventoryHealth(logger, sales, snap.Inventory, granularity)

	logger.Info("analysis complete",
		"sales_rows", len(sales),
		"segments", len(report.Segments),
		"quadrants", len(report.Quadrants),
		"excluded_rows", report.MissingKeyRows)
	return report, nil
}

// ownerConcentrations computes the dependency profile per salesperson,
// counting only valid customers in each book.
func (e *Engine) ownerConcentrations(sales []core.SalesRecord, valid map[string]bool) []OwnerConcentration {
	books := make(map[string]map[string]decimal.Decimal)
	for _, r := range sales {
		if r.Salesperson == "" || r.CustomerID == "" || !valid[r.CustomerID] {
			continue
		}
		book, ok := books[r.Salesperson]
		if !ok {
			book = make(map[string]decimal.Decimal)
			books[r.Salesperson] = book
		}
		book[r.CustomerID] = book[r.CustomerID].Add(r.Amount)
	}

	out := make([]OwnerConcentration, 0, len(books))
	for owner, book := range books {
		out = append(out, OwnerConcentration{
			OwnerID:    owner,
			Dependency: DependencyConcentration(book),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerID < out[j].OwnerID })
	return out
}

// inventoryHealth joins on-hand stock per material against sales velocity of
// the matching product. Materials with no sales rows still appear, with zero
// velocity and infinite coverage.
func (e *Engine) inventoryHealth(logger *slog.Logger, sales []core.SalesRecord, inventory []core.InventoryRecord, granularity Granularity) []InventoryHealthRow {
	if len(inventory) == 0 {
		return nil
	}

	qty := Aggregate(logger, sales, []GroupKey{KeyProduct, KeyPeriod}, MeasureQuantity, granularity)
	totalQty := make(map[string]decimal.Decimal)
	periodCount := make(map[string]int)
	for _, m := range qty.Metrics {
		totalQty[m.EntityID] = totalQty[m.EntityID].Add(m.SumAmount)
		periodCount[m.EntityID]++
	}

	span := salesSpan(sales)
	days := decimal.NewFromInt(1)
	if !span.IsZero() {
		d := int64(span.To.Sub(span.From).Hours()/24) + 1
		if d > 1 {
			days = decimal.NewFromInt(d)
		}
	}

	out := make([]InventoryHealthRow, 0, len(inventory))
	for _, inv := range inventory {
		total := totalQty[inv.MaterialID]
		avgDaily := total.Div(days)
		avgPeriod := decimal.Zero
		if n := periodCount[inv.MaterialID]; n > 0 {
			avgPeriod = total.Div(decimal.NewFromInt(int64(n)))
		}
		out = append(out, InventoryHealthRow{
			MaterialID:        inv.MaterialID,
			OnHandQty:         inv.OnHandQty,
			AvgDailySalesQty:  avgDaily,
			AvgPeriodSalesQty: avgPeriod,
			Turnover:          InventoryTurnover(avgPeriod, inv.OnHandQty),
			CoverageDays:      CoverageDays(inv.OnHandQty, avgDaily),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return out
}

// salesSpan returns the inclusive date range covered by the sales rows.
func salesSpan(sales []core.SalesRecord) core.DateRange {
	var span core.DateRange
	for _, r := range sales {
		if r.Date.IsZero() {
			continue
		}
		if span.From.IsZero() || r.Date.Before(span.From) {
			span.From = r.Date
		}
		if span.To.IsZero() || r.Date.After(span.To) {
			span.To = r.Date
		}
	}
	return span
}
