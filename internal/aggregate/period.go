package aggregate

import (
	"sort"

	"retailetl/pkg/contracts/domain"
)

type periodAcc struct {
	orders    map[string]struct{}
	customers map[int64]struct{}
	quantity  int
	revenue   float64
}

// SalesByPeriod groups the enriched set by year-month and computes
// period-over-period growth. Growth is calculated against the
// chronologically previous period; the first period has no baseline and a
// zero baseline makes the ratio undefined, so both cases yield nil rather
// than zero or an error. The output is sorted by revenue descending.
func SalesByPeriod(rows []domain.EnrichedTransaction) []domain.PeriodSales {
	groups := make(map[string]*periodAcc)
	for _, r := range rows {
		g := groups[r.YearMonth]
		if g == nil {
			g = &periodAcc{
				orders:    make(map[string]struct{}),
				customers: make(map[int64]struct{}),
			}
			groups[r.YearMonth] = g
		}
		g.orders[r.OrderID] = struct{}{}
		if r.CustomerID != nil {
			g.customers[*r.CustomerID] = struct{}{}
		}
		g.quantity += r.Quantity
		g.revenue += r.TotalPrice
	}

	// Chronological order first: the "2006-01" key sorts correctly as text.
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.PeriodSales, 0, len(keys))
	for i, key := range keys {
		g := groups[key]
		orders := len(g.orders)
		p := domain.PeriodSales{
			YearMonth:       key,
			TotalOrders:     orders,
			UniqueCustomers: len(g.customers),
			TotalQuantity:   g.quantity,
			TotalRevenue:    g.revenue,
			AvgOrderValue:   safeDiv(g.revenue, orders),
		}
		if i > 0 {
			prev := groups[keys[i-1]]
			p.RevenueGrowth = growthRate(g.revenue, prev.revenue)
			p.OrdersGrowth = growthRate(float64(orders), float64(len(prev.orders)))
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].YearMonth < out[j].YearMonth
	})

	return out
}

// growthRate returns (current-previous)/previous, or nil when the baseline is
// zero.
func growthRate(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	rate := (current - previous) / previous
	return &rate
}
