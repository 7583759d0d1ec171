package aggregate

import (
	"sort"
	"time"

	"retailetl/internal/config"
	"retailetl/pkg/contracts/domain"
)

type customerAcc struct {
	orders map[string]struct{}
	spent  float64
	items  int
	first  time.Time
	last   time.Time
}

// CustomerSegments groups the enriched set by customer and assigns a value
// segment from total spend. Both thresholds are inclusive on their lower
// edge: spend exactly at MediumSpend is Medium, exactly at HighSpend is High.
// The output is sorted by total spend descending.
func CustomerSegments(rows []domain.EnrichedTransaction, cfg config.SegmentationConfig) []domain.CustomerSegment {
	groups := make(map[int64]*customerAcc)
	for _, r := range rows {
		if r.CustomerID == nil {
			// The filter guarantees attribution; an unattributed row here
			// cannot enter customer-level analytics.
			continue
		}
		id := *r.CustomerID
		g := groups[id]
		if g == nil {
			g = &customerAcc{
				orders: make(map[string]struct{}),
				first:  r.TransactionTime,
				last:   r.TransactionTime,
			}
			groups[id] = g
		}
		g.orders[r.OrderID] = struct{}{}
		g.spent += r.TotalPrice
		g.items += r.Quantity
		if r.TransactionTime.Before(g.first) {
			g.first = r.TransactionTime
		}
		if r.TransactionTime.After(g.last) {
			g.last = r.TransactionTime
		}
	}

	out := make([]domain.CustomerSegment, 0, len(groups))
	for id, g := range groups {
		orders := len(g.orders)
		out = append(out, domain.CustomerSegment{
			CustomerID:    id,
			TotalOrders:   orders,
			TotalSpent:    g.spent,
			TotalItems:    g.items,
			FirstPurchase: g.first,
			LastPurchase:  g.last,
			AvgOrderValue: safeDiv(g.spent, orders),
			LifetimeDays:  lifetimeDays(g.first, g.last),
			Segment:       segmentFor(g.spent, cfg),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSpent != out[j].TotalSpent {
			return out[i].TotalSpent > out[j].TotalSpent
		}
		return out[i].CustomerID < out[j].CustomerID
	})

	return out
}

// lifetimeDays is the whole days between first and last purchase, never below
// zero for single-purchase customers.
func lifetimeDays(first, last time.Time) int {
	days := int(last.Sub(first).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func segmentFor(spent float64, cfg config.SegmentationConfig) domain.SegmentLabel {
	switch {
	case spent >= cfg.HighSpend:
		return domain.SegmentHigh
	case spent >= cfg.MediumSpend:
		return domain.SegmentMedium
	default:
		return domain.SegmentLow
	}
}
