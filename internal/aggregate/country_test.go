package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailetl/pkg/contracts/domain"
)

func TestSalesByCountry_DistinctOrders(t *testing.T) {
	ts := time.Date(2011, 3, 1, 9, 0, 0, 0, time.UTC)
	enriched := []domain.EnrichedTransaction{
		row("O1", "P1", "Germany", 300, 1, 10.0, ts),
		row("O1", "P2", "Germany", 300, 1, 10.0, ts), // same order, second line item
		row("O2", "P1", "Germany", 300, 1, 10.0, ts),
	}

	out := SalesByCountry(enriched)
	require.Len(t, out, 1)
	assert.Equal(t, "Germany", out[0].Country)
	assert.Equal(t, 2, out[0].TotalOrders)
	assert.Equal(t, 1, out[0].UniqueCustomers)
	assert.Equal(t, 3, out[0].TotalQuantity)
	assert.InDelta(t, 30.0, out[0].TotalRevenue, 1e-9)
	assert.InDelta(t, 15.0, out[0].AvgOrderValue, 1e-9)
	assert.InDelta(t, 1.5, out[0].AvgQuantityPerOrder, 1e-9)
	assert.InDelta(t, 30.0, out[0].RevenuePerCustomer, 1e-9)
}

func TestSalesByCountry_SortedByRevenueDesc(t *testing.T) {
	ts := time.Date(2011, 3, 1, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		country string
		price   float64
	}{
		{"France", 50},
		{"United Kingdom", 200},
		{"Germany", 120},
	}

	var rows []domain.EnrichedTransaction
	for i, c := range cases {
		rows = append(rows, row(fmt.Sprintf("O%d", i+1), "P1", c.country, int64(100+i), 1, c.price, ts))
	}

	out := SalesByCountry(rows)
	require.Len(t, out, 3)
	assert.Equal(t, "United Kingdom", out[0].Country)
	assert.Equal(t, "Germany", out[1].Country)
	assert.Equal(t, "France", out[2].Country)
}

func TestSalesByCountry_EqualRevenueTieBreaksByName(t *testing.T) {
	ts := time.Date(2011, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := []domain.EnrichedTransaction{
		row("O1", "P1", "Spain", 100, 1, 10.0, ts),
		row("O2", "P1", "Austria", 101, 1, 10.0, ts),
	}

	out := SalesByCountry(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "Austria", out[0].Country)
	assert.Equal(t, "Spain", out[1].Country)
}

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 0.0, safeDiv(10, 0))
	assert.InDelta(t, 2.5, safeDiv(10, 4), 1e-9)
}
