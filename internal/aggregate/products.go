package aggregate

import (
	"sort"

	"retailetl/pkg/contracts/domain"
)

type productAcc struct {
	description string
	quantity    int
	revenue     float64
	orders      map[string]struct{}
	customers   map[int64]struct{}
}

// TopProducts groups the enriched set by product code, ranks by summed
// revenue descending and truncates to topN. Each product carries the first
// non-sentinel description seen for its code. Ties at the cutoff break by
// total quantity sold descending, then by code ascending, so the table is
// deterministic.
func TopProducts(rows []domain.EnrichedTransaction, topN int) []domain.ProductSales {
	groups := make(map[string]*productAcc)
	for _, r := range rows {
		g := groups[r.ProductCode]
		if g == nil {
			g = &productAcc{
				orders:    make(map[string]struct{}),
				customers: make(map[int64]struct{}),
			}
			groups[r.ProductCode] = g
		}
		if g.description == "" && r.Description != domain.NoDescription {
			g.description = r.Description
		}
		g.quantity += r.Quantity
		g.revenue += r.TotalPrice
		g.orders[r.OrderID] = struct{}{}
		if r.CustomerID != nil {
			g.customers[*r.CustomerID] = struct{}{}
		}
	}

	out := make([]domain.ProductSales, 0, len(groups))
	for code, g := range groups {
		description := g.description
		if description == "" {
			description = domain.NoDescription
		}
		out = append(out, domain.ProductSales{
			ProductCode:         code,
			Description:         description,
			TotalQuantitySold:   g.quantity,
			TotalRevenue:        g.revenue,
			TotalOrders:         len(g.orders),
			UniqueCustomers:     len(g.customers),
			AvgPricePerUnit:     safeDiv(g.revenue, g.quantity),
			AvgQuantityPerOrder: safeDiv(float64(g.quantity), len(g.orders)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		if out[i].TotalQuantitySold != out[j].TotalQuantitySold {
			return out[i].TotalQuantitySold > out[j].TotalQuantitySold
		}
		return out[i].ProductCode < out[j].ProductCode
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}

	return out
}
