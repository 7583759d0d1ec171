package aggregate

import (
	"sort"

	"retailetl/pkg/contracts/domain"
)

type countryAcc struct {
	orders    map[string]struct{}
	customers map[int64]struct{}
	quantity  int
	revenue   float64
}

// SalesByCountry groups the enriched set by country. Order counts are
// distinct by OrderID: one order spanning several line items counts once.
func SalesByCountry(rows []domain.EnrichedTransaction) []domain.CountrySales {
	groups := make(map[string]*countryAcc)
	for _, r := range rows {
		g := groups[r.Country]
		if g == nil {
			g = &countryAcc{
				orders:    make(map[string]struct{}),
				customers: make(map[int64]struct{}),
			}
			groups[r.Country] = g
		}
		g.orders[r.OrderID] = struct{}{}
		if r.CustomerID != nil {
			g.customers[*r.CustomerID] = struct{}{}
		}
		g.quantity += r.Quantity
		g.revenue += r.TotalPrice
	}

	out := make([]domain.CountrySales, 0, len(groups))
	for country, g := range groups {
		orders := len(g.orders)
		customers := len(g.customers)
		out = append(out, domain.CountrySales{
			Country:             country,
			TotalOrders:         orders,
			UniqueCustomers:     customers,
			TotalQuantity:       g.quantity,
			TotalRevenue:        g.revenue,
			AvgOrderValue:       safeDiv(g.revenue, orders),
			AvgQuantityPerOrder: safeDiv(float64(g.quantity), orders),
			RevenuePerCustomer:  safeDiv(g.revenue, customers),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].Country < out[j].Country
	})

	return out
}

// safeDiv divides, treating an empty group as zero.
func safeDiv(num float64, den int) float64 {
	if den == 0 {
		return 0
	}
	return num / float64(den)
}
