package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelForOrderKind(t *testing.T) {
	assert.Equal(t, ChannelMT, ChannelForOrderKind(OrderNormal))
	assert.Equal(t, ChannelTT, ChannelForOrderKind(OrderTT))
	assert.Equal(t, ChannelOther, ChannelForOrderKind(OrderPromotionExpense))
	assert.Equal(t, ChannelOther, ChannelForOrderKind(OrderOther))
	assert.Equal(t, ChannelOther, ChannelForOrderKind(OrderKind("anything")))
}

func TestYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2026-04")
	require.NoError(t, err)
	assert.Equal(t, 2026, ym.Year)
	assert.Equal(t, time.April, ym.Month)
	assert.Equal(t, "2026-04", ym.String())
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), ym.First())

	_, err = ParseYearMonth("April 2026")
	assert.Error(t, err)
}

func TestYearMonth_Before(t *testing.T) {
	mar, _ := ParseYearMonth("2026-03")
	apr, _ := ParseYearMonth("2026-04")
	prevDec, _ := ParseYearMonth("2025-12")
	assert.True(t, mar.Before(apr))
	assert.False(t, apr.Before(mar))
	assert.True(t, prevDec.Before(mar))
	assert.False(t, mar.Before(mar))
}

func TestDateRange(t *testing.T) {
	from := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	r := DateRange{From: from, To: to}

	// Closed interval: both endpoints included.
	assert.True(t, r.Contains(from))
	assert.True(t, r.Contains(to))
	assert.True(t, r.Contains(from.AddDate(0, 0, 5)))
	assert.False(t, r.Contains(from.AddDate(0, 0, -1)))
	assert.False(t, r.Contains(to.AddDate(0, 0, 1)))

	// Unbounded sides.
	assert.True(t, DateRange{From: from}.Contains(to.AddDate(1, 0, 0)))
	assert.True(t, DateRange{}.Contains(time.Time{}))

	assert.NoError(t, r.Validate())
	assert.Error(t, DateRange{From: to, To: from}.Validate())
}

func TestSnapshot_ValidCustomers(t *testing.T) {
	snap := &Snapshot{Relations: []CustomerRelation{
		{CustomerID: "C1", Status: RelationNormal},
		{CustomerID: "C2", Status: RelationOther},
		{CustomerID: "C3", Status: RelationNormal},
	}}
	valid := snap.ValidCustomers()
	assert.Equal(t, map[string]bool{"C1": true, "C3": true}, valid)
}

func TestSnapshot_PromotedProducts(t *testing.T) {
	snap := &Snapshot{Promotions: []PromotionRecord{
		{ProductID: "P1", CampaignID: "A"},
		{ProductID: "P1", CampaignID: "B"},
		{ProductID: "", CampaignID: "C"},
	}}
	assert.Equal(t, map[string]bool{"P1": true}, snap.PromotedProducts())
}
