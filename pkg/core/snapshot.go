package core

import (
	"time"
)

// Snapshot is one immutable batch of loaded source tables. A refresh builds a
// brand new Snapshot and swaps it wholesale; nothing mutates a snapshot after
// load, so concurrent analysis sessions may share one without locking.
type Snapshot struct {
	Sales      []SalesRecord
	Inventory  []InventoryRecord
	Targets    []TargetRecord
	Promotions []PromotionRecord
	Relations  []CustomerRelation

	// LoadedAt is when the snapshot was assembled.
	LoadedAt time.Time
	// SkippedRows counts source rows dropped during load per table, keyed by
	// table name. Data-quality diagnostics, never fatal.
	SkippedRows map[string]int
}

// ValidCustomers returns the set of customer IDs whose relationship status is
// Normal. This set is the denominator universe for penetration and dependency
// metrics.
func (s *Snapshot) ValidCustomers() map[string]bool {
	valid := make(map[string]bool, len(s.Relations))
	for _, r := range s.Relations {
		if r.Status == RelationNormal {
			valid[r.CustomerID] = true
		}
	}
	return valid
}

// PromotedProducts returns the distinct product IDs that have at least one
// promotion campaign, the qualifying set for new-product penetration.
func (s *Snapshot) PromotedProducts() map[string]bool {
	out := make(map[string]bool, len(s.Promotions))
	for _, p := range s.Promotions {
		if p.ProductID != "" {
			out[p.ProductID] = true
		}
	}
	return out
}
