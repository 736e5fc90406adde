package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesight-labs/salesight/internal/testutil"
	"github.com/salesight-labs/salesight/pkg/core"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_FullDirectory(t *testing.T) {
	dir := t.TempDir()

	// Alias headers on purpose: order_date/sku/customer_code/sales_amount/qty
	// must resolve to the canonical fields.
	writeFile(t, dir, SalesFile,
		"order_date,sku,product_name,customer_code,customer_name,region,sales_person,order_type,sales_amount,qty\n"+
			"2026-01-05,P1,Widget,C1,Shop One,North,alice,NormalOrder,\"1,200.50\",3\n"+
			"2026-01-06,P2,Gadget,C2,Shop Two,South,bob,TTOrder,800,2\n"+
			"not-a-date,P3,Broken,C3,Shop Three,North,alice,NormalOrder,100,1\n"+
			"2026-01-07,P1,Widget,C1,Shop One,North,alice,,50,1\n")

	writeFile(t, dir, InventoryFile,
		"material_id,on_hand_qty,allocated_qty,available_qty,incoming_qty,snapshot_date\n"+
			"P1,120,20,100,30,2026-01-31\n"+
			",50,0,50,0,2026-01-31\n")

	writeFile(t, dir, TargetsFile,
		"month,owner_id,target_amount\n"+
			"2026-01,alice,2000\n"+
			"garbage,bob,1000\n")

	writeFile(t, dir, PromotionsFile,
		"campaign_id,product_id,forecast_amount,start_date,end_date\n"+
			"NY26,P2,5000,2026-01-01,2026-01-31\n")

	writeFile(t, dir, CustomersFile,
		"customer_id,relation_status\n"+
			"C1,Normal\n"+
			"C2,Blocked\n")

	snap, err := New(dir, testutil.NewTestLogger(t)).Load()
	require.NoError(t, err)

	require.Len(t, snap.Sales, 3)
	first := snap.Sales[0]
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "P1", first.ProductID)
	assert.Equal(t, "Widget", first.ProductName)
	assert.Equal(t, "C1", first.CustomerID)
	assert.Equal(t, "Shop One", first.CustomerName)
	assert.Equal(t, "alice", first.Salesperson)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("1200.50")),
		"thousands separator stripped, got %s", first.Amount)
	assert.Equal(t, core.OrderNormal, first.OrderKind)
	assert.Equal(t, core.ChannelMT, first.Channel)

	assert.Equal(t, core.ChannelTT, snap.Sales[1].Channel)

	// Blank order kind degrades to Other, not a skip.
	assert.Equal(t, core.OrderOther, snap.Sales[2].OrderKind)
	assert.Equal(t, core.ChannelOther, snap.Sales[2].Channel)

	require.Len(t, snap.Inventory, 1)
	assert.Equal(t, "P1", snap.Inventory[0].MaterialID)
	assert.True(t, snap.Inventory[0].OnHandQty.Equal(decimal.NewFromInt(120)))

	require.Len(t, snap.Targets, 1)
	assert.Equal(t, core.YearMonth{Year: 2026, Month: time.January}, snap.Targets[0].Period)
	assert.Equal(t, "alice", snap.Targets[0].OwnerID)

	require.Len(t, snap.Promotions, 1)
	assert.Equal(t, "P2", snap.Promotions[0].ProductID)
	assert.Equal(t, "NY26", snap.Promotions[0].CampaignID)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), snap.Promotions[0].Window.From)

	require.Len(t, snap.Relations, 2)
	assert.Equal(t, core.RelationNormal, snap.Relations[0].Status)
	assert.Equal(t, core.RelationOther, snap.Relations[1].Status)

	// One bad date in sales, one blank material in inventory, one bad period
	// in targets.
	assert.Equal(t, 1, snap.SkippedRows[SalesFile])
	assert.Equal(t, 1, snap.SkippedRows[InventoryFile])
	assert.Equal(t, 1, snap.SkippedRows[TargetsFile])
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestLoad_OptionalTablesAbsent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, SalesFile,
		"date,product,customer,amount\n"+
			"2026-02-01,P1,C1,100\n")

	snap, err := New(dir, testutil.NewTestLogger(t)).Load()
	require.NoError(t, err)

	assert.Len(t, snap.Sales, 1)
	assert.Empty(t, snap.Inventory)
	assert.Empty(t, snap.Targets)
	assert.Empty(t, snap.Promotions)
	assert.Empty(t, snap.Relations)
	assert.Empty(t, snap.SkippedRows)
}

func TestLoad_SalesFileMissing(t *testing.T) {
	_, err := New(t.TempDir(), testutil.NewTestLogger(t)).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), SalesFile)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	// No amount column under any alias.
	writeFile(t, dir, SalesFile,
		"date,product,customer\n"+
			"2026-02-01,P1,C1\n")

	_, err := New(dir, testutil.NewTestLogger(t)).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "amount")
}

func TestLoad_ShortRowsSkippedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, SalesFile,
		"date,product,customer,amount\n"+
			"2026-02-01,P1,C1,100\n"+
			"2026-02-02\n"+
			"2026-02-03,P2,C2,200\n")

	snap, err := New(dir, testutil.NewTestLogger(t)).Load()
	require.NoError(t, err)
	assert.Len(t, snap.Sales, 2)
	assert.Equal(t, 1, snap.SkippedRows[SalesFile])
}

func TestResolveSchema_CaseInsensitive(t *testing.T) {
	s := resolveSchema([]string{"Date", " PRODUCT_ID ", "Customer", "Amount"})
	assert.NoError(t, s.require("date", "product", "customer", "amount"))

	row := []string{"2026-01-01", "P1", "C1", "100"}
	assert.Equal(t, "P1", s.get(row, "product"))
	assert.Equal(t, "", s.get(row, "region"))
}

func TestParseDate_Layouts(t *testing.T) {
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2026-03-09", "2026/03/09", "09/03/2026", "2026.03.09"} {
		got, ok := parseDate(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseDate("March 9th")
	assert.False(t, ok)
}
