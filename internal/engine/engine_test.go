package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesight-labs/salesight/internal/testutil"
	"github.com/salesight-labs/salesight/pkg/core"
)

func testSnapshot() *core.Snapshot {
	jan, _ := core.ParseYearMonth("2026-01")
	return &core.Snapshot{
		Sales: testSales(),
		Inventory: []core.InventoryRecord{
			{MaterialID: "P1", OnHandQty: decimal.NewFromInt(300)},
			{MaterialID: "P9", OnHandQty: decimal.NewFromInt(40)}, // never sold
		},
		Targets: []core.TargetRecord{
			{Period: jan, OwnerID: "alice", TargetAmount: decimal.NewFromInt(200)},
		},
		Promotions: []core.PromotionRecord{
			{ProductID: "P1", CampaignID: "NPD-1", ForecastAmount: decimal.NewFromInt(1000)},
		},
		Relations: []core.CustomerRelation{
			{CustomerID: "C1", Status: core.RelationNormal},
			{CustomerID: "C2", Status: core.RelationNormal},
			{CustomerID: "C3", Status: core.RelationOther},
		},
		SkippedRows: map[string]int{},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(Config{
		Thresholds: core.DefaultThresholds(),
		Logger:     testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return eng
}

func TestNew_InvalidConfigFailsFast(t *testing.T) {
	bad := core.DefaultThresholds()
	bad.Tier.RecencyCoolingDays = 10 // below active days
	_, err := New(Config{Thresholds: bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestAnalyze_FullReport(t *testing.T) {
	eng := newTestEngine(t)
	session := NewSession(testSnapshot(), FilterPredicates{}, GranularityMonth)

	report, err := eng.Analyze(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, session.ID, report.SessionID)
	assert.Len(t, report.SalesByPeriod, 2)

	// alice has a January target; every other owner-period is undefined.
	byOwnerPeriod := make(map[string]AchievementRow)
	for _, a := range report.Achievement {
		byOwnerPeriod[a.OwnerID+"/"+a.Period.String()] = a
	}
	aliceJan := byOwnerPeriod["alice/2026-01"]
	v, ok := aliceJan.Rate.Value()
	require.True(t, ok)
	assert.InDelta(t, 50, v, 1e-9)
	assert.True(t, byOwnerPeriod["alice/2026-02"].Rate.IsUndefined())
	assert.True(t, byOwnerPeriod["bob/2026-01"].Rate.IsUndefined())

	// Valid customers are C1 and C2; only C1 bought the promoted product P1
	// in January, and C2 bought it in February.
	assert.Equal(t, 2, report.Penetration.Universe)
	assert.Equal(t, 2, report.Penetration.Purchasers)

	// C3 is not a valid customer, so carol's book is empty and absent.
	owners := make([]string, 0, len(report.Dependency))
	for _, d := range report.Dependency {
		owners = append(owners, d.OwnerID)
	}
	assert.Equal(t, []string{"alice", "bob"}, owners)

	assert.NotEmpty(t, report.Segments)
	assert.NotEmpty(t, report.Quadrants)

	// P9 has stock but no sales velocity: infinite coverage, zero turnover.
	require.Len(t, report.Inventory, 2)
	p9 := report.Inventory[1]
	require.Equal(t, "P9", p9.MaterialID)
	assert.True(t, p9.CoverageDays.IsInfinite())
	turnover, ok := p9.Turnover.Value()
	require.True(t, ok)
	assert.Zero(t, turnover)
}

func TestAnalyze_EmptySnapshot(t *testing.T) {
	eng := newTestEngine(t)
	session := NewSession(&core.Snapshot{}, FilterPredicates{}, GranularityMonth)

	report, err := eng.Analyze(context.Background(), session)
	require.NoError(t, err)

	assert.Empty(t, report.SalesByPeriod)
	assert.Empty(t, report.Achievement)
	assert.Empty(t, report.Segments)
	assert.Empty(t, report.Quadrants)
	assert.Empty(t, report.Inventory)
	assert.True(t, report.Penetration.NoDenominator)
}

func TestAnalyze_NilSnapshot(t *testing.T) {
	eng := newTestEngine(t)
	_, err := eng.Analyze(context.Background(), &Session{})
	assert.Error(t, err)
}

func TestAnalyze_InvalidDateRange(t *testing.T) {
	eng := newTestEngine(t)
	session := NewSession(testSnapshot(), FilterPredicates{
		DateRange: core.DateRange{From: day("2026-02-01"), To: day("2026-01-01")},
	}, GranularityMonth)
	_, err := eng.Analyze(context.Background(), session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestAnalyze_CancelledContext(t *testing.T) {
	eng := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.Analyze(ctx, NewSession(testSnapshot(), FilterPredicates{}, GranularityMonth))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_SharedSnapshotAcrossSessions(t *testing.T) {
	// Two sessions over one snapshot must not interfere: the snapshot is
	// immutable and the engine carries no cross-call state.
	eng := newTestEngine(t)
	snap := testSnapshot()

	first, err := eng.Analyze(context.Background(), NewSession(snap, FilterPredicates{Region: "North"}, GranularityMonth))
	require.NoError(t, err)
	second, err := eng.Analyze(context.Background(), NewSession(snap, FilterPredicates{}, GranularityMonth))
	require.NoError(t, err)
	third, err := eng.Analyze(context.Background(), NewSession(snap, FilterPredicates{Region: "North"}, GranularityMonth))
	require.NoError(t, err)

	assert.Equal(t, first.SalesByPeriod, third.SalesByPeriod)
	assert.NotEqual(t, first.SalesByPeriod, second.SalesByPeriod)
	assert.Len(t, snap.Sales, 4)
}
