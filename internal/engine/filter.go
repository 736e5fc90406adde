// Package engine implements the SaleSight metrics engine: declarative sales
// filtering, grouped aggregation with period bucketing, BCG-style product and
// RFM-style customer classification, and the ratio KPI calculators.
//
// Every function here is a pure transformation over its inputs. Input slices
// are never mutated; each call returns freshly allocated results, so identical
// inputs always produce identical outputs and callers may cache freely.
package engine

import (
	"strings"

	"github.com/salesight-labs/salesight/pkg/core"
)

// FilterPredicates is a declarative predicate set over the sales table.
// Zero-valued fields impose no constraint. Set predicates compose by AND.
type FilterPredicates struct {
	// Region matches exactly.
	Region string
	// Salesperson matches exactly on the record owner field.
	Salesperson string
	// Customer matches by customer code; when no row matches the code, the
	// same value is retried against the customer display name.
	Customer string
	// Product matches by product code with the same name fallback.
	Product string
	// DateRange bounds the record date, inclusive on both ends.
	DateRange core.DateRange
}

// IsEmpty reports whether no predicate is set.
func (p FilterPredicates) IsEmpty() bool {
	return p.Region == "" && p.Salesperson == "" && p.Customer == "" &&
		p.Product == "" && p.DateRange.IsZero()
}

// ApplyFilters returns the sales rows matching every set predicate. The input
// slice is never modified; an empty result is valid output, not an error.
// Applying the same predicates to an already-filtered result is a no-op.
func ApplyFilters(records []core.SalesRecord, p FilterPredicates) []core.SalesRecord {
	out := records
	if p.Region != "" {
		out = filterExact(out, p.Region, func(r core.SalesRecord) string { return r.Region })
	}
	if p.Salesperson != "" {
		out = filterExact(out, p.Salesperson, func(r core.SalesRecord) string { return r.Salesperson })
	}
	if p.Customer != "" {
		out = filterWithFallback(out, p.Customer,
			func(r core.SalesRecord) string { return r.CustomerID },
			func(r core.SalesRecord) string { return r.CustomerName })
	}
	if p.Product != "" {
		out = filterWithFallback(out, p.Product,
			func(r core.SalesRecord) string { return r.ProductID },
			func(r core.SalesRecord) string { return r.ProductName })
	}
	if !p.DateRange.IsZero() {
		out = filterRange(out, p.DateRange)
	}
	if len(out) == len(records) {
		// No predicate dropped anything; still hand back a copy so callers
		// can rely on the result being independent of the input.
		out = append([]core.SalesRecord(nil), records...)
	}
	return out
}

func filterExact(records []core.SalesRecord, want string, field func(core.SalesRecord) string) []core.SalesRecord {
	out := make([]core.SalesRecord, 0, len(records))
	for _, r := range records {
		if strings.EqualFold(field(r), want) {
			out = append(out, r)
		}
	}
	return out
}

// filterWithFallback matches by code first; when the code matches zero rows,
// the same value is matched against the display-name field instead.
func filterWithFallback(records []core.SalesRecord, want string, code, name func(core.SalesRecord) string) []core.SalesRecord {
	byCode := filterExact(records, want, code)
	if len(byCode) > 0 {
		return byCode
	}
	return filterExact(records, want, name)
}

func filterRange(records []core.SalesRecord, dr core.DateRange) []core.SalesRecord {
	out := make([]core.SalesRecord, 0, len(records))
	for _, r := range records {
		if dr.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}
