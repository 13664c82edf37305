package fulfillment

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
)

func item(ordered, fulfilled float64) entity.OrderItem {
	return entity.OrderItem{OrderedQuantity: ordered, FulfilledQuantity: fulfilled}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name           string
		items          []entity.OrderItem
		wantOrdered    float64
		wantFulfilled  float64
		wantRemaining  float64
		wantRate       int
		wantCompleted  int
	}{
		{
			name:          "mixed completion",
			items:         []entity.OrderItem{item(10, 10), item(5, 3)},
			wantOrdered:   15,
			wantFulfilled: 13,
			wantRemaining: 2,
			wantRate:      87, // round(13/15*100)
			wantCompleted: 1,
		},
		{
			name:  "empty list",
			items: nil,
		},
		{
			name:          "zero ordered avoids division by zero",
			items:         []entity.OrderItem{item(0, 0)},
			wantRate:      0,
			wantCompleted: 1, // 0 >= 0
		},
		{
			name:          "all complete",
			items:         []entity.OrderItem{item(4, 4), item(6, 6)},
			wantOrdered:   10,
			wantFulfilled: 10,
			wantRate:      100,
			wantCompleted: 2,
		},
		{
			name:          "negative fulfilled treated as zero",
			items:         []entity.OrderItem{item(10, -5)},
			wantOrdered:   10,
			wantFulfilled: 0,
			wantRemaining: 10,
			wantRate:      0,
		},
		{
			name:          "NaN fulfilled treated as zero",
			items:         []entity.OrderItem{item(10, math.NaN())},
			wantOrdered:   10,
			wantFulfilled: 0,
			wantRemaining: 10,
			wantRate:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Aggregate(tt.items)
			if m.TotalOrderedQuantity != tt.wantOrdered {
				t.Errorf("TotalOrderedQuantity = %g, want %g", m.TotalOrderedQuantity, tt.wantOrdered)
			}
			if m.TotalFulfilledQuantity != tt.wantFulfilled {
				t.Errorf("TotalFulfilledQuantity = %g, want %g", m.TotalFulfilledQuantity, tt.wantFulfilled)
			}
			if m.RemainingQuantity != tt.wantRemaining {
				t.Errorf("RemainingQuantity = %g, want %g", m.RemainingQuantity, tt.wantRemaining)
			}
			if m.CompletionRate != tt.wantRate {
				t.Errorf("CompletionRate = %d, want %d", m.CompletionRate, tt.wantRate)
			}
			if m.CompletedItemsCount != tt.wantCompleted {
				t.Errorf("CompletedItemsCount = %d, want %d", m.CompletedItemsCount, tt.wantCompleted)
			}
			if m.TotalItems != len(tt.items) {
				t.Errorf("TotalItems = %d, want %d", m.TotalItems, len(tt.items))
			}
			if m.CompletionRate < 0 || m.CompletionRate > 100 {
				t.Errorf("CompletionRate %d out of [0,100]", m.CompletionRate)
			}
		})
	}
}

func TestAggregateIdempotent(t *testing.T) {
	items := []entity.OrderItem{item(10, 4), item(3, 3), item(7, 0)}
	first := Aggregate(items)
	second := Aggregate(items)
	if first != second {
		t.Errorf("Aggregate not idempotent: %+v vs %+v", first, second)
	}
}

func TestRemaining(t *testing.T) {
	if got := Remaining(item(10, 4)); got != 6 {
		t.Errorf("Remaining = %g, want 6", got)
	}
	if got := Remaining(item(5, 5)); got != 0 {
		t.Errorf("Remaining = %g, want 0", got)
	}
	// malformed fulfilled sanitized to zero
	if got := Remaining(item(5, -2)); got != 5 {
		t.Errorf("Remaining = %g, want 5", got)
	}
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		remaining float64
		stock     float64
		want      StockStatus
	}{
		{0, 0, StockComplete},
		{0, 100, StockComplete},
		{5, 10, StockSufficient},
		{5, 5, StockSufficient},
		{5, 3, StockInsufficient},
		{5, 0, StockInsufficient},
	}
	for _, tt := range tests {
		if got := ClassifyStock(tt.remaining, tt.stock); got != tt.want {
			t.Errorf("ClassifyStock(%g, %g) = %s, want %s", tt.remaining, tt.stock, got, tt.want)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	it := item(10, 4) // remaining 6

	if err := ValidateQuantity(it, 6); err != nil {
		t.Errorf("quantity equal to remaining should be accepted: %v", err)
	}
	if err := ValidateQuantity(it, 1); err != nil {
		t.Errorf("quantity below remaining should be accepted: %v", err)
	}

	err := ValidateQuantity(it, 7)
	if err == nil {
		t.Fatal("quantity above remaining should be rejected")
	}
	var qe *QuantityError
	if !errors.As(err, &qe) {
		t.Fatalf("expected *QuantityError, got %T", err)
	}
	if qe.Remaining != 6 {
		t.Errorf("QuantityError.Remaining = %g, want 6", qe.Remaining)
	}

	if ValidateQuantity(it, 0) == nil {
		t.Error("zero quantity should be rejected")
	}
	if ValidateQuantity(it, -3) == nil {
		t.Error("negative quantity should be rejected")
	}
}

func TestClassifyDeadline(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	tests := []struct {
		name      string
		item      entity.OrderItem
		want      DeadlineBuckets
	}{
		{
			name: "past deadline with open quantity is overdue",
			item: entity.OrderItem{OrderedQuantity: 10, FulfilledQuantity: 3, DeadlineDate: date(2024, 5, 20)},
			want: DeadlineBuckets{Overdue: true},
		},
		{
			name: "past deadline fully fulfilled is not overdue",
			item: entity.OrderItem{OrderedQuantity: 10, FulfilledQuantity: 10, DeadlineDate: date(2024, 5, 20)},
			want: DeadlineBuckets{},
		},
		{
			name: "within a week is in both week and month buckets",
			item: entity.OrderItem{OrderedQuantity: 10, DeadlineDate: date(2024, 6, 5)},
			want: DeadlineBuckets{DueThisWeek: true, DueThisMonth: true},
		},
		{
			name: "within the month only",
			item: entity.OrderItem{OrderedQuantity: 10, DeadlineDate: date(2024, 6, 20)},
			want: DeadlineBuckets{DueThisMonth: true},
		},
		{
			name: "beyond a month",
			item: entity.OrderItem{OrderedQuantity: 10, DeadlineDate: date(2024, 8, 1)},
			want: DeadlineBuckets{},
		},
		{
			name: "no deadline",
			item: entity.OrderItem{OrderedQuantity: 10},
			want: DeadlineBuckets{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDeadline(tt.item, now); got != tt.want {
				t.Errorf("ClassifyDeadline = %+v, want %+v", got, tt.want)
			}
		})
	}
}
