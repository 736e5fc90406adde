package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesight-labs/salesight/pkg/core"
)

// Table file names expected inside the data directory. Only sales.csv is
// mandatory; every other table degrades to an empty slice with a log line.
const (
	SalesFile      = "sales.csv"
	InventoryFile  = "inventory.csv"
	TargetsFile    = "targets.csv"
	PromotionsFile = "promotions.csv"
	CustomersFile  = "customers.csv"
)

// Loader reads a snapshot directory into an immutable core.Snapshot.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// New creates a loader for the given data directory.
func New(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, logger: logger}
}

// Load reads every table and assembles a fresh snapshot. Rows that cannot be
// parsed are skipped and counted; a refresh replaces the previous snapshot
// wholesale rather than patching it.
func (l *Loader) Load() (*core.Snapshot, error) {
	snap := &core.Snapshot{
		LoadedAt:    time.Now().UTC(),
		SkippedRows: make(map[string]int),
	}

	var err error
	snap.Sales, err = readTable(l, SalesFile, snap.SkippedRows, readSalesRow, requiredSalesColumns)
	if err != nil {
		return nil, err
	}
	if len(snap.Sales) == 0 {
		l.logger.Warn("sales table is empty", "dir", l.dir)
	}

	snap.Inventory, err = readOptionalTable(l, InventoryFile, snap.SkippedRows, readInventoryRow, requiredInventoryColumns)
	if err != nil {
		return nil, err
	}
	snap.Targets, err = readOptionalTable(l, TargetsFile, snap.SkippedRows, readTargetRow, requiredTargetColumns)
	if err != nil {
		return nil, err
	}
	snap.Promotions, err = readOptionalTable(l, PromotionsFile, snap.SkippedRows, readPromotionRow, requiredPromotionColumns)
	if err != nil {
		return nil, err
	}
	snap.Relations, err = readOptionalTable(l, CustomersFile, snap.SkippedRows, readRelationRow, requiredRelationColumns)
	if err != nil {
		return nil, err
	}

	l.logger.Info("snapshot loaded",
		"sales", len(snap.Sales),
		"inventory", len(snap.Inventory),
		"targets", len(snap.Targets),
		"promotions", len(snap.Promotions),
		"relations", len(snap.Relations))
	return snap, nil
}

type rowReader[T any] func(schema, []string) (T, bool)

var (
	requiredSalesColumns     = []string{"date", "product", "customer", "amount"}
	requiredInventoryColumns = []string{"product", "on_hand"}
	requiredTargetColumns    = []string{"period", "owner", "target"}
	requiredPromotionColumns = []string{"product", "campaign"}
	requiredRelationColumns  = []string{"customer", "status"}
)

// readTable reads one CSV file, resolving column aliases once and applying
// the row reader per data row. Unparseable rows are skipped and counted.
func readTable[T any](l *Loader, name string, skipped map[string]int, read rowReader[T], required []string) ([]T, error) {
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	rows, s, err := parseCSV(f, required)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, ok := read(s, row)
		if !ok {
			skipped[name]++
			continue
		}
		out = append(out, rec)
	}
	if n := skipped[name]; n > 0 {
		l.logger.Warn("rows skipped during load", "table", name, "skipped", n)
	}
	return out, nil
}

// readOptionalTable is readTable, except a missing file is an empty table.
func readOptionalTable[T any](l *Loader, name string, skipped map[string]int, read rowReader[T], required []string) ([]T, error) {
	if _, err := os.Stat(filepath.Join(l.dir, name)); os.IsNotExist(err) {
		l.logger.Info("table file absent, using empty table", "table", name)
		return nil, nil
	}
	return readTable(l, name, skipped, read, required)
}

func parseCSV(r io.Reader, required []string) ([][]string, schema, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv read: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("file has no header row")
	}
	s := resolveSchema(records[0])
	if err := s.require(required...); err != nil {
		return nil, nil, err
	}
	return records[1:], s, nil
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func readSalesRow(s schema, row []string) (core.SalesRecord, bool) {
	date, ok := parseDate(s.get(row, "date"))
	if !ok {
		return core.SalesRecord{}, false
	}
	amount, ok := parseAmount(s.get(row, "amount"))
	if !ok {
		return core.SalesRecord{}, false
	}
	product := s.get(row, "product")
	customer := s.get(row, "customer")
	if product == "" || customer == "" {
		return core.SalesRecord{}, false
	}
	// Quantity is optional on some exports; a missing column means zero.
	quantity, _ := parseAmount(s.get(row, "quantity"))
	kind := core.OrderKind(s.get(row, "order_kind"))
	if kind == "" {
		kind = core.OrderOther
	}

	return core.SalesRecord{
		Date:         date,
		ProductID:    product,
		ProductName:  s.get(row, "product_name"),
		CustomerID:   customer,
		CustomerName: s.get(row, "customer_name"),
		Region:       s.get(row, "region"),
		Salesperson:  s.get(row, "salesperson"),
		OrderKind:    kind,
		Channel:      core.ChannelForOrderKind(kind),
		Amount:       amount,
		Quantity:     quantity,
	}, true
}

func readInventoryRow(s schema, row []string) (core.InventoryRecord, bool) {
	material := s.get(row, "product")
	if material == "" {
		return core.InventoryRecord{}, false
	}
	onHand, ok := parseAmount(s.get(row, "on_hand"))
	if !ok {
		return core.InventoryRecord{}, false
	}
	allocated, _ := parseAmount(s.get(row, "allocated"))
	available, _ := parseAmount(s.get(row, "available"))
	incoming, _ := parseAmount(s.get(row, "incoming"))
	snapshot, _ := parseDate(s.get(row, "snapshot"))

	return core.InventoryRecord{
		MaterialID:   material,
		OnHandQty:    onHand,
		AllocatedQty: allocated,
		AvailableQty: available,
		IncomingQty:  incoming,
		SnapshotDate: snapshot,
	}, true
}

func readTargetRow(s schema, row []string) (core.TargetRecord, bool) {
	period, err := core.ParseYearMonth(s.get(row, "period"))
	if err != nil {
		return core.TargetRecord{}, false
	}
	owner := s.get(row, "owner")
	if owner == "" {
		return core.TargetRecord{}, false
	}
	target, ok := parseAmount(s.get(row, "target"))
	if !ok {
		return core.TargetRecord{}, false
	}
	return core.TargetRecord{Period: period, OwnerID: owner, TargetAmount: target}, true
}

func readPromotionRow(s schema, row []string) (core.PromotionRecord, bool) {
	product := s.get(row, "product")
	campaign := s.get(row, "campaign")
	if product == "" || campaign == "" {
		return core.PromotionRecord{}, false
	}
	forecast, _ := parseAmount(s.get(row, "forecast"))
	from, _ := parseDate(s.get(row, "from"))
	to, _ := parseDate(s.get(row, "to"))

	return core.PromotionRecord{
		ProductID:      product,
		CampaignID:     campaign,
		ForecastAmount: forecast,
		Window:         core.DateRange{From: from, To: to},
	}, true
}

func readRelationRow(s schema, row []string) (core.CustomerRelation, bool) {
	customer := s.get(row, "customer")
	if customer == "" {
		return core.CustomerRelation{}, false
	}
	status := core.RelationOther
	if strings.EqualFold(s.get(row, "status"), string(core.RelationNormal)) {
		status = core.RelationNormal
	}
	return core.CustomerRelation{CustomerID: customer, Status: status}, true
}
