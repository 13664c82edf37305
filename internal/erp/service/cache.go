package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dashboard read-model cache keys. Every order/shipment mutation
// invalidates all of them; readers repopulate lazily.
const (
	cacheKeyDeadlines    = "erp:dashboard:deadlines"
	cacheKeyOrderSummary = "erp:dashboard:order_summary"
	cacheKeyDemand       = "erp:dashboard:pending_demand"
)

var ttlDashboard = 5 * time.Minute

func invalidateDashboard(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	// best effort: a failed invalidation only extends staleness by the TTL
	rdb.Del(ctx, cacheKeyDeadlines, cacheKeyOrderSummary, cacheKeyDemand)
}
