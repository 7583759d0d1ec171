// Package aggregate derives the four gold-layer analytical tables from the
// enriched clean set. The reducers are mutually independent and read-only
// over their input, so the aggregator runs them concurrently; each one owns
// its output slice and no intermediate state is shared.
package aggregate

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"retailetl/internal/config"
	"retailetl/pkg/contracts/domain"
)

// Aggregator computes the gold tables for one run.
type Aggregator struct {
	logger       *slog.Logger
	topN         int
	segmentation config.SegmentationConfig
}

// NewAggregator creates an aggregator with the configured segmentation
// thresholds and top-products limit.
func NewAggregator(logger *slog.Logger, products config.ProductsConfig, segmentation config.SegmentationConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		logger:       logger,
		topN:         products.TopN,
		segmentation: segmentation,
	}
}

// Run computes all four tables over the same enriched set. Re-running with an
// unchanged input yields identical tables.
func (a *Aggregator) Run(ctx context.Context, rows []domain.EnrichedTransaction) (*domain.GoldTables, error) {
	tables := &domain.GoldTables{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		tables.Countries = SalesByCountry(rows)
		return nil
	})
	g.Go(func() error {
		tables.Periods = SalesByPeriod(rows)
		return nil
	})
	g.Go(func() error {
		tables.Products = TopProducts(rows, a.topN)
		return nil
	})
	g.Go(func() error {
		tables.Segments = CustomerSegments(rows, a.segmentation)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Info("aggregation complete",
		slog.Int("countries", len(tables.Countries)),
		slog.Int("periods", len(tables.Periods)),
		slog.Int("products", len(tables.Products)),
		slog.Int("segments", len(tables.Segments)))

	return tables, nil
}
