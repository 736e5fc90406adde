package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/salesight-labs/salesight/pkg/core"
)

// AchievementRate returns actual/target as a percentage. A nil target means
// no target row matched the join and the rate is undefined, which downstream
// renders as "N/A", never as 0%. A zero target with positive actuals is also
// undefined to avoid a bogus infinity; zero actuals against a zero target is
// an honest 0.
func AchievementRate(actual decimal.Decimal, target *decimal.Decimal) core.Ratio {
	if target == nil {
		return core.UndefinedRatio()
	}
	if target.IsZero() {
		if actual.IsZero() {
			return core.DefinedRatio(0)
		}
		return core.UndefinedRatio()
	}
	return core.DefinedRatio(actual.Div(*target).InexactFloat64() * 100)
}

// PenetrationResult is the penetration KPI plus its data-quality flag.
type PenetrationResult struct {
	Rate core.Ratio
	// Purchasers is the distinct valid customers who bought from the
	// qualifying product set.
	Purchasers int
	// Universe is the count of valid customers.
	Universe int
	// NoDenominator is set when the valid-customer universe is empty; the
	// rate is then 0 by definition.
	NoDenominator bool
}

// PenetrationRate computes the share of valid customers that purchased from
// the qualifying product set, bounded to [0,100]. Only customers in the
// valid set count on either side of the division.
func PenetrationRate(records []core.SalesRecord, qualifying map[string]bool, valid map[string]bool) PenetrationResult {
	if len(valid) == 0 {
		return PenetrationResult{Rate: core.DefinedRatio(0), NoDenominator: true}
	}

	purchasers := make(map[string]bool)
	for _, r := range records {
		if qualifying[r.ProductID] && valid[r.CustomerID] {
			purchasers[r.CustomerID] = true
		}
	}

	rate := float64(len(purchasers)) / float64(len(valid)) * 100
	return PenetrationResult{
		Rate:       core.DefinedRatio(rate).Clamp(0, 100),
		Purchasers: len(purchasers),
		Universe:   len(valid),
	}
}

// CustomerShare is one customer's slice of an owner's revenue.
type CustomerShare struct {
	CustomerID string
	Amount     decimal.Decimal
	// SharePct is the customer's percentage of the owner total.
	SharePct float64
}

// DependencyResult describes how concentrated an owner's revenue is across
// customers. MaxDependency is the largest single-customer share; Stability is
// its inverse (100 - max), the diversification proxy. Both are undefined when
// the owner booked no revenue.
type DependencyResult struct {
	Shares        []CustomerShare
	MaxDependency core.Ratio
	Stability     core.Ratio
}

// DependencyConcentration computes per-customer revenue shares for a single
// owner's book and the concentration KPIs derived from them.
func DependencyConcentration(byCustomer map[string]decimal.Decimal) DependencyResult {
	total := decimal.Zero
	for _, amount := range byCustomer {
		total = total.Add(amount)
	}
	if total.IsZero() {
		return DependencyResult{
			MaxDependency: core.UndefinedRatio(),
			Stability:     core.UndefinedRatio(),
		}
	}

	shares := make([]CustomerShare, 0, len(byCustomer))
	maxShare := 0.0
	for id, amount := range byCustomer {
		pct := amount.Div(total).InexactFloat64() * 100
		if pct > maxShare {
			maxShare = pct
		}
		shares = append(shares, CustomerShare{CustomerID: id, Amount: amount, SharePct: pct})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].SharePct != shares[j].SharePct {
			return shares[i].SharePct > shares[j].SharePct
		}
		return shares[i].CustomerID < shares[j].CustomerID
	})

	return DependencyResult{
		Shares:        shares,
		MaxDependency: core.DefinedRatio(maxShare).Clamp(0, 100),
		Stability:     core.DefinedRatio(100 - maxShare).Clamp(0, 100),
	}
}

// InventoryTurnover returns average period sales quantity over on-hand
// quantity. An empty warehouse turns over nothing: 0, not undefined.
func InventoryTurnover(avgPeriodSalesQty, onHandQty decimal.Decimal) core.Ratio {
	if onHandQty.IsZero() {
		return core.DefinedRatio(0)
	}
	return core.DefinedRatio(avgPeriodSalesQty.Div(onHandQty).InexactFloat64())
}

// CoverageDays returns how many days the on-hand stock lasts at the average
// daily sales velocity. Zero velocity means the stock never runs out, which
// is the infinite sentinel, distinct from any large finite number.
func CoverageDays(onHandQty, avgDailySalesQty decimal.Decimal) core.Ratio {
	if avgDailySalesQty.LessThanOrEqual(decimal.Zero) {
		return core.InfiniteRatio()
	}
	return core.DefinedRatio(onHandQty.Div(avgDailySalesQty).InexactFloat64())
}
