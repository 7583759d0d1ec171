package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailetl/internal/config"
	"retailetl/internal/errors"
	"retailetl/pkg/contracts/domain"
)

func defaultQualityConfig() config.QualityConfig {
	return config.QualityConfig{
		MinQuantity:  1,
		MinUnitPrice: 0.01,
		MaxUnitPrice: 10000,
	}
}

func customer(id int64) *int64 {
	return &id
}

func tx(order string, quantity int, price float64, cust *int64) domain.Transaction {
	return domain.Transaction{
		OrderID:         order,
		ProductCode:     "85123A",
		Description:     "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:        quantity,
		TransactionTime: time.Date(2011, 5, 10, 12, 30, 0, 0, time.UTC),
		UnitPrice:       price,
		CustomerID:      cust,
		Country:         "United Kingdom",
	}
}

func TestFilter_Apply_RuleCounts(t *testing.T) {
	// Ten raw rows: three without a customer, one exact duplicate pair
	// (the duplicate counts once), and one negative quantity.
	dupe := tx("536365", 6, 2.55, customer(17850))
	raw := []domain.Transaction{
		tx("536365", 6, 2.55, nil),
		tx("536366", 6, 2.55, nil),
		tx("536367", 6, 2.55, nil),
		dupe,
		dupe,
		tx("536368", -5, 2.55, customer(17851)),
		tx("536369", 2, 3.39, customer(17852)),
		tx("536370", 8, 4.25, customer(17853)),
		tx("536371", 1, 9.95, customer(17854)),
		tx("536372", 3, 1.25, customer(17855)),
	}

	f := NewFilter(nil, defaultQualityConfig())
	clean, report, err := f.Apply(raw)
	require.NoError(t, err)

	assert.Len(t, clean, 5)
	assert.Equal(t, 10, report.TotalRows)
	assert.Equal(t, 5, report.CleanRows)
	assert.Equal(t, 1, report.Duplicates.Count)
	assert.Equal(t, 3, report.MissingCustomer.Count)
	assert.Equal(t, 1, report.NonPositiveQuantity.Count)
	assert.Equal(t, 0, report.PriceOutOfRange.Count)
	assert.InDelta(t, 10.0, report.Duplicates.Percent, 1e-9)
	assert.InDelta(t, 30.0, report.MissingCustomer.Percent, 1e-9)
	assert.InDelta(t, 10.0, report.NonPositiveQuantity.Percent, 1e-9)
}

func TestFilter_Apply_IndependentRules(t *testing.T) {
	// One row failing every rule at once still increments each metric.
	bad := tx("536400", -1, 0.0, nil)
	raw := []domain.Transaction{bad, bad}

	f := NewFilter(nil, defaultQualityConfig())
	clean, report, err := f.Apply(raw)
	require.NoError(t, err)

	assert.Empty(t, clean)
	assert.Equal(t, 1, report.Duplicates.Count)
	assert.Equal(t, 2, report.MissingCustomer.Count)
	assert.Equal(t, 2, report.NonPositiveQuantity.Count)
	assert.Equal(t, 2, report.PriceOutOfRange.Count)
}

func TestFilter_Apply_PriceBounds(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		keep  bool
	}{
		{name: "below minimum", price: 0.005, keep: false},
		{name: "at minimum", price: 0.01, keep: true},
		{name: "mid range", price: 19.99, keep: true},
		{name: "at maximum", price: 10000, keep: true},
		{name: "above maximum", price: 10000.01, keep: false},
		{name: "zero", price: 0, keep: false},
	}

	f := NewFilter(nil, defaultQualityConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, report, err := f.Apply([]domain.Transaction{tx("1", 1, tt.price, customer(1))})
			require.NoError(t, err)
			if tt.keep {
				assert.Len(t, clean, 1)
				assert.Equal(t, 0, report.PriceOutOfRange.Count)
			} else {
				assert.Empty(t, clean)
				assert.Equal(t, 1, report.PriceOutOfRange.Count)
			}
		})
	}
}

func TestFilter_Apply_DuplicateKeepsFirst(t *testing.T) {
	first := tx("536365", 6, 2.55, customer(17850))
	nearDupe := first
	nearDupe.Quantity = 7 // one field differs, so not a duplicate

	f := NewFilter(nil, defaultQualityConfig())
	clean, report, err := f.Apply([]domain.Transaction{first, first, nearDupe})
	require.NoError(t, err)

	assert.Len(t, clean, 2)
	assert.Equal(t, 1, report.Duplicates.Count)
	assert.Equal(t, 6, clean[0].Quantity)
	assert.Equal(t, 7, clean[1].Quantity)
}

func TestFilter_Apply_NilCustomerDistinctInDedup(t *testing.T) {
	withCustomer := tx("536365", 6, 2.55, customer(17850))
	without := tx("536365", 6, 2.55, nil)

	f := NewFilter(nil, defaultQualityConfig())
	_, report, err := f.Apply([]domain.Transaction{withCustomer, without})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Duplicates.Count)
}

func TestFilter_Apply_FillsMissingDescription(t *testing.T) {
	row := tx("536365", 6, 2.55, customer(17850))
	row.Description = "   "

	f := NewFilter(nil, defaultQualityConfig())
	clean, report, err := f.Apply([]domain.Transaction{row})
	require.NoError(t, err)

	require.Len(t, clean, 1)
	assert.Equal(t, domain.NoDescription, clean[0].Description)
	assert.Equal(t, 1, report.CleanRows)
	// The raw slice is untouched.
	assert.Equal(t, "   ", row.Description)
}

func TestFilter_Apply_EmptyInput(t *testing.T) {
	f := NewFilter(nil, defaultQualityConfig())
	clean, report, err := f.Apply(nil)
	require.NoError(t, err)

	assert.Empty(t, clean)
	assert.Equal(t, 0, report.TotalRows)
	assert.Equal(t, 0.0, report.Duplicates.Percent)
}

func TestFilter_Apply_InvertedBounds(t *testing.T) {
	cfg := defaultQualityConfig()
	cfg.MinUnitPrice = 100
	cfg.MaxUnitPrice = 1

	f := NewFilter(nil, cfg)
	_, _, err := f.Apply([]domain.Transaction{tx("1", 1, 5, customer(1))})
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}
