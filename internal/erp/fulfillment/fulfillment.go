// Package fulfillment holds the order fulfillment accounting rules:
// quantity aggregation, remaining-quantity and stock-sufficiency
// checks, shipment quantity validation and deadline bucketing. The
// legacy clients repeated this arithmetic inline on every screen;
// here it lives once, as plain functions with no framework
// dependency. "now" is always an argument so callers and tests
// control the clock.
package fulfillment

import (
	"fmt"
	"math"
	"time"

	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
)

// StockStatus classifies an order item against available stock.
type StockStatus string

const (
	StockComplete     StockStatus = "COMPLETE"
	StockSufficient   StockStatus = "SUFFICIENT"
	StockInsufficient StockStatus = "INSUFFICIENT"
)

// OrderMetrics are the aggregated fulfillment figures for one order.
type OrderMetrics struct {
	TotalOrderedQuantity   float64 `json:"total_ordered_quantity"`
	TotalFulfilledQuantity float64 `json:"total_fulfilled_quantity"`
	RemainingQuantity      float64 `json:"remaining_quantity"`
	CompletionRate         int     `json:"completion_rate"`
	CompletedItemsCount    int     `json:"completed_items_count"`
	TotalItems             int     `json:"total_items"`
}

// DeadlineBuckets are independent memberships: an item due this week
// is also due this month.
type DeadlineBuckets struct {
	Overdue      bool `json:"overdue"`
	DueThisWeek  bool `json:"due_this_week"`
	DueThisMonth bool `json:"due_this_month"`
}

// sanitize guards against malformed quantities that slipped past
// binding validation. Negative and non-finite values count as zero.
func sanitize(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		return 0
	}
	return q
}

// Remaining returns ordered minus fulfilled for one item.
func Remaining(item entity.OrderItem) float64 {
	return sanitize(item.OrderedQuantity) - sanitize(item.FulfilledQuantity)
}

// IsCompleted reports whether the item is fully fulfilled.
func IsCompleted(item entity.OrderItem) bool {
	return sanitize(item.FulfilledQuantity) >= sanitize(item.OrderedQuantity)
}

// Aggregate computes order-level fulfillment metrics from the item
// list. It is a pure function: no side effects, identical output for
// identical input. Completion rate is 0 when nothing is ordered,
// never NaN, and clamped to [0, 100].
func Aggregate(items []entity.OrderItem) OrderMetrics {
	m := OrderMetrics{TotalItems: len(items)}
	for _, item := range items {
		m.TotalOrderedQuantity += sanitize(item.OrderedQuantity)
		m.TotalFulfilledQuantity += sanitize(item.FulfilledQuantity)
		if IsCompleted(item) {
			m.CompletedItemsCount++
		}
	}
	m.RemainingQuantity = m.TotalOrderedQuantity - m.TotalFulfilledQuantity

	if m.TotalOrderedQuantity > 0 {
		rate := int(math.Round(m.TotalFulfilledQuantity / m.TotalOrderedQuantity * 100))
		if rate > 100 {
			rate = 100
		}
		if rate < 0 {
			rate = 0
		}
		m.CompletionRate = rate
	}
	return m
}

// ClassifyStock compares an item's remaining quantity against the
// product's current stock. INSUFFICIENT is the cue to plan
// production for the shortfall.
func ClassifyStock(remaining, currentStock float64) StockStatus {
	if remaining <= 0 {
		return StockComplete
	}
	if sanitize(currentStock) >= remaining {
		return StockSufficient
	}
	return StockInsufficient
}

// QuantityError is returned when a proposed shipment quantity cannot
// be applied to an order item. It carries the exact remaining
// quantity so callers can surface it inline.
type QuantityError struct {
	Proposed  float64 `json:"proposed"`
	Remaining float64 `json:"remaining"`
}

func (e *QuantityError) Error() string {
	if e.Proposed <= 0 {
		return fmt.Sprintf("shipment quantity must be positive, got %g", e.Proposed)
	}
	return fmt.Sprintf("shipment quantity %g exceeds remaining quantity %g", e.Proposed, e.Remaining)
}

// ValidateQuantity rejects a proposed shipment quantity that is not
// positive or exceeds the item's remaining quantity. A nil return
// means the quantity may be shipped.
func ValidateQuantity(item entity.OrderItem, proposed float64) error {
	remaining := Remaining(item)
	if proposed <= 0 || math.IsNaN(proposed) || math.IsInf(proposed, 0) {
		return &QuantityError{Proposed: proposed, Remaining: remaining}
	}
	if proposed > remaining {
		return &QuantityError{Proposed: proposed, Remaining: remaining}
	}
	return nil
}

// ClassifyDeadline buckets an item by its primary deadline relative
// to now. Items without a deadline fall in no bucket. Buckets are
// used for dashboard counts only, never for control flow.
func ClassifyDeadline(item entity.OrderItem, now time.Time) DeadlineBuckets {
	var b DeadlineBuckets
	if item.DeadlineDate == nil {
		return b
	}
	d := *item.DeadlineDate

	if d.Before(now) && !IsCompleted(item) {
		b.Overdue = true
	}
	if !d.Before(now) {
		if !d.After(now.AddDate(0, 0, 7)) {
			b.DueThisWeek = true
		}
		if !d.After(now.AddDate(0, 1, 0)) {
			b.DueThisMonth = true
		}
	}
	return b
}
