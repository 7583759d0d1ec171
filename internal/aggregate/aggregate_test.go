package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailetl/internal/config"
	"retailetl/pkg/contracts/domain"
)

// row builds an enriched transaction the way the silver layer would, deriving
// TotalPrice and YearMonth from its inputs.
func row(order, product, country string, custID int64, quantity int, price float64, ts time.Time) domain.EnrichedTransaction {
	return domain.EnrichedTransaction{
		Transaction: domain.Transaction{
			OrderID:         order,
			ProductCode:     product,
			Description:     "DESC " + product,
			Quantity:        quantity,
			TransactionTime: ts,
			UnitPrice:       price,
			CustomerID:      &custID,
			Country:         country,
		},
		TotalPrice: float64(quantity) * price,
		YearMonth:  ts.Format("2006-01"),
	}
}

func defaultSegmentation() config.SegmentationConfig {
	return config.SegmentationConfig{MediumSpend: 1000, HighSpend: 5000}
}

func sampleRows() []domain.EnrichedTransaction {
	jan := time.Date(2011, 1, 10, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2011, 2, 14, 11, 0, 0, 0, time.UTC)
	return []domain.EnrichedTransaction{
		row("O1", "P1", "United Kingdom", 100, 10, 10.0, jan), // 100
		row("O1", "P2", "United Kingdom", 100, 5, 20.0, jan),  // 100
		row("O2", "P1", "France", 200, 2, 50.0, feb),          // 100
		row("O3", "P3", "France", 201, 4, 30.0, feb),          // 120
	}
}

func TestAggregator_Run_RevenueReconciles(t *testing.T) {
	rows := sampleRows()
	agg := NewAggregator(nil, config.ProductsConfig{TopN: 50}, defaultSegmentation())

	tables, err := agg.Run(context.Background(), rows)
	require.NoError(t, err)

	var total float64
	for _, r := range rows {
		total += r.TotalPrice
	}

	sum := func() (byCountry, byPeriod, bySegment float64) {
		for _, c := range tables.Countries {
			byCountry += c.TotalRevenue
		}
		for _, p := range tables.Periods {
			byPeriod += p.TotalRevenue
		}
		for _, s := range tables.Segments {
			bySegment += s.TotalSpent
		}
		return
	}
	byCountry, byPeriod, bySegment := sum()

	assert.InDelta(t, total, byCountry, 1e-9)
	assert.InDelta(t, total, byPeriod, 1e-9)
	assert.InDelta(t, total, bySegment, 1e-9)
}

func TestAggregator_Run_Idempotent(t *testing.T) {
	rows := sampleRows()
	agg := NewAggregator(nil, config.ProductsConfig{TopN: 50}, defaultSegmentation())

	first, err := agg.Run(context.Background(), rows)
	require.NoError(t, err)
	second, err := agg.Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregator_Run_EmptyInput(t *testing.T) {
	agg := NewAggregator(nil, config.ProductsConfig{TopN: 50}, defaultSegmentation())

	tables, err := agg.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, tables.Countries)
	assert.Empty(t, tables.Periods)
	assert.Empty(t, tables.Products)
	assert.Empty(t, tables.Segments)
}
