// Package loader reads spreadsheet-derived CSV snapshots into the typed
// tables the engine consumes. Column-name fallbacks are resolved here, once,
// at load time; downstream components only ever see canonical field names.
package loader

import (
	"fmt"
	"strings"
	"time"
)

// headerAliases maps each canonical field to the column names it may appear
// under in exported spreadsheets. Matching is case-insensitive and first
// alias wins.
var headerAliases = map[string][]string{
	"date":         {"date", "order_date", "txn_date"},
	"product":      {"product_id", "product", "material", "material_id", "sku"},
	"product_name": {"product_name", "material_name"},
	"customer":     {"customer_id", "customer", "customer_code"},
	"customer_name": {"customer_name", "customer_alias"},
	"region":       {"region", "area"},
	"salesperson":  {"salesperson", "sales_person", "owner", "rep"},
	"order_kind":   {"order_kind", "order_type"},
	"amount":       {"amount", "sales_amount", "net_amount", "value"},
	"quantity":     {"quantity", "qty", "sales_qty"},

	"on_hand":   {"on_hand_qty", "on_hand", "stock_qty", "stock"},
	"allocated": {"allocated_qty", "allocated"},
	"available": {"available_qty", "available"},
	"incoming":  {"incoming_qty", "incoming", "in_transit_qty"},
	"snapshot":  {"snapshot_date", "stock_date"},

	"period": {"period", "month", "year_month"},
	"owner":  {"owner_id", "owner", "salesperson", "sales_person"},
	"target": {"target_amount", "target"},

	"campaign": {"campaign_id", "campaign"},
	"forecast": {"forecast_amount", "forecast"},
	"from":     {"from", "start_date", "window_from"},
	"to":       {"to", "end_date", "window_to"},

	"status": {"status", "relation_status", "customer_status"},
}

// schema maps canonical field names to column indexes for one CSV file.
type schema map[string]int

// resolveSchema matches a header row against the alias table. Unmatched
// canonical fields are simply absent; each reader decides which fields it
// requires.
func resolveSchema(header []string) schema {
	byName := make(map[string]int, len(header))
	for i, col := range header {
		byName[strings.ToLower(strings.TrimSpace(col))] = i
	}

	s := make(schema)
	for field, aliases := range headerAliases {
		for _, alias := range aliases {
			if idx, ok := byName[alias]; ok {
				s[field] = idx
				break
			}
		}
	}
	return s
}

// get returns the trimmed cell for a canonical field, or "" when the column
// is absent or the row is short.
func (s schema) get(row []string, field string) string {
	idx, ok := s[field]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// require fails when any of the named canonical fields has no column.
func (s schema) require(fields ...string) error {
	var missing []string
	for _, f := range fields {
		if _, ok := s[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2006.01.02",
	time.RFC3339,
}

// parseDate tries the common spreadsheet date formats.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
