// Package core defines the shared data model for the SaleSight analytics
// engine: source record shapes, derived result shapes, the ratio sentinel
// type, and the threshold configuration consumed by the classification and
// metrics components.
package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Channel is the sales channel derived from the order kind at load time.
type Channel string

const (
	ChannelMT    Channel = "MT"
	ChannelTT    Channel = "TT"
	ChannelOther Channel = "Other"
)

// OrderKind is the raw order classification on a sales row.
type OrderKind string

const (
	OrderNormal           OrderKind = "NormalOrder"
	OrderTT               OrderKind = "TTOrder"
	OrderPromotionExpense OrderKind = "PromotionExpense"
	OrderOther            OrderKind = "Other"
)

// ChannelForOrderKind maps an order kind to its sales channel.
// NormalOrder sells through modern trade, TTOrder through traditional trade;
// everything else (promotion expenses included) is Other.
func ChannelForOrderKind(kind OrderKind) Channel {
	switch kind {
	case OrderNormal:
		return ChannelMT
	case OrderTT:
		return ChannelTT
	default:
		return ChannelOther
	}
}

// RelationStatus is the customer relationship status.
// Only Normal customers count toward penetration and dependency denominators.
type RelationStatus string

const (
	RelationNormal RelationStatus = "Normal"
	RelationOther  RelationStatus = "Other"
)

// SalesRecord is a single immutable sales transaction row.
type SalesRecord struct {
	Date        time.Time
	ProductID   string
	ProductName string
	CustomerID  string
	// CustomerName is the display name, used as a filter fallback when no
	// customer code matches.
	CustomerName string
	Region       string
	Salesperson  string
	Channel      Channel
	OrderKind    OrderKind
	Amount       decimal.Decimal
	Quantity     decimal.Decimal
}

// InventoryRecord is one material's stock position at a snapshot date.
type InventoryRecord struct {
	MaterialID   string
	OnHandQty    decimal.Decimal
	AllocatedQty decimal.Decimal
	AvailableQty decimal.Decimal
	IncomingQty  decimal.Decimal
	SnapshotDate time.Time
}

// TargetRecord is a sales target for an owner (salesperson or customer)
// in a single month.
type TargetRecord struct {
	Period       YearMonth
	OwnerID      string
	TargetAmount decimal.Decimal
}

// PromotionRecord is a planned promotion campaign for a product.
type PromotionRecord struct {
	ProductID      string
	CampaignID     string
	ForecastAmount decimal.Decimal
	Window         DateRange
}

// CustomerRelation carries the relationship status for one customer.
type CustomerRelation struct {
	CustomerID string
	Status     RelationStatus
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf truncates a date to its calendar month.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses "2026-04" style period labels.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return YearMonthOf(t), nil
}

// String renders the period as "2006-01".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// First returns the first day of the month, the canonical bucket label date.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// DateRange is an inclusive closed date interval.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range. A zero From or To leaves
// that side unbounded.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Validate rejects inverted ranges.
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return fmt.Errorf("date range to %s is before from %s",
			r.To.Format("2006-01-02"), r.From.Format("2006-01-02"))
	}
	return nil
}

// AggregatedMetric is one row of a grouped aggregation result. It is derived
// on every query and never mutated in place.
type AggregatedMetric struct {
	EntityID   string
	Period     string
	Dimensions map[string]string
	SumAmount  decimal.Decimal
	Count      int
	Mean       decimal.Decimal
}

// CustomerTier is an RFM-derived customer value tier.
type CustomerTier string

const (
	TierDiamond   CustomerTier = "Diamond"
	TierGold      CustomerTier = "Gold"
	TierSilver    CustomerTier = "Silver"
	TierPotential CustomerTier = "Potential"
	TierAtRisk    CustomerTier = "AtRisk"
)

// Rank orders tiers from worst (0) to best (4). Used by the monotonicity
// tests and by presentation sorting.
func (t CustomerTier) Rank() int {
	switch t {
	case TierDiamond:
		return 4
	case TierGold:
		return 3
	case TierSilver:
		return 2
	case TierPotential:
		return 1
	default:
		return 0
	}
}

// CustomerSegment is the tiering result for one customer.
type CustomerSegment struct {
	CustomerID string
	Tier       CustomerTier
	// ValueScore is 0-100, higher is more valuable.
	ValueScore float64
	// RiskScore is 0-100, higher means more churn risk.
	RiskScore float64
	Recency   int
	Frequency int
	Monetary  decimal.Decimal
}

// Quadrant is a BCG-style product classification.
type Quadrant string

const (
	QuadrantStar         Quadrant = "Star"
	QuadrantCashCow      Quadrant = "CashCow"
	QuadrantQuestionMark Quadrant = "QuestionMark"
	QuadrantDog          Quadrant = "Dog"
)

// ProductQuadrant is the quadrant assignment for one product.
type ProductQuadrant struct {
	ProductID string
	// Share is the product's percentage of the grand total amount.
	Share float64
	// GrowthRate is the period-over-period growth percentage. Can be negative.
	GrowthRate float64
	Quadrant   Quadrant
}
