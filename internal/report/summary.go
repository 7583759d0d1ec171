// Package report is the reporting collaborator: it turns the quality report
// and the run's aggregate tables into a human-readable summary, logged at
// coarse granularity and persisted as a JSON artifact. Logs carry counts
// only; the surrogate customer key is the only identifier that ever appears.
package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"retailetl/internal/config"
	"retailetl/internal/errors"
	"retailetl/pkg/contracts/domain"
)

// SummaryPrefix names persisted run summaries.
const SummaryPrefix = "run_summary"

// SummaryReporter logs and persists run summaries.
type SummaryReporter struct {
	logger *slog.Logger
	paths  *config.Paths
}

// NewSummaryReporter creates the production reporting collaborator.
func NewSummaryReporter(logger *slog.Logger, paths *config.Paths) *SummaryReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryReporter{logger: logger, paths: paths}
}

// Report emits the quality metrics and summary scalars for one run.
func (r *SummaryReporter) Report(ctx context.Context, summary *domain.RunSummary) error {
	quality := summary.Quality
	r.logger.Info("data quality report",
		slog.Int("total_rows", quality.TotalRows),
		slog.Int("clean_rows", quality.CleanRows),
		slog.Group("duplicates",
			slog.Int("count", quality.Duplicates.Count),
			slog.Float64("percent", quality.Duplicates.Percent)),
		slog.Group("missing_customer",
			slog.Int("count", quality.MissingCustomer.Count),
			slog.Float64("percent", quality.MissingCustomer.Percent)),
		slog.Group("non_positive_quantity",
			slog.Int("count", quality.NonPositiveQuantity.Count),
			slog.Float64("percent", quality.NonPositiveQuantity.Percent)),
		slog.Group("price_out_of_range",
			slog.Int("count", quality.PriceOutOfRange.Count),
			slog.Float64("percent", quality.PriceOutOfRange.Percent)))

	r.logger.Info("pipeline run summary",
		slog.String("run_id", summary.RunID),
		slog.Duration("duration", summary.Duration),
		slog.Int("raw_rows", summary.RawRows),
		slog.Int("clean_rows", summary.CleanRows),
		slog.Float64("total_revenue", summary.TotalRevenue),
		slog.Int("unique_customers", summary.UniqueCustomers),
		slog.Int("unique_products", summary.UniqueProducts),
		slog.String("best_period", summary.BestPeriod),
		slog.String("top_product", summary.TopProduct))

	path := r.paths.TimestampedFile(r.paths.GoldDir, SummaryPrefix, "json", summary.StartedAt)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errors.NewStorageError("report.Report", "failed to marshal run summary", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewStorageError("report.Report", "failed to write run summary", err)
	}
	return nil
}

// BuildSummary derives the summary scalars of a run from its outputs.
func BuildSummary(
	runID string,
	startedAt time.Time,
	duration time.Duration,
	rawRows int,
	enriched []domain.EnrichedTransaction,
	tables *domain.GoldTables,
	quality *domain.QualityReport,
	stageDurations map[string]time.Duration,
) *domain.RunSummary {
	summary := &domain.RunSummary{
		RunID:          runID,
		StartedAt:      startedAt,
		Duration:       duration,
		RawRows:        rawRows,
		CleanRows:      len(enriched),
		Quality:        quality,
		StageDurations: stageDurations,
	}

	products := make(map[string]struct{})
	for _, tx := range enriched {
		summary.TotalRevenue += tx.TotalPrice
		products[tx.ProductCode] = struct{}{}
	}
	summary.UniqueProducts = len(products)
	summary.UniqueCustomers = len(tables.Segments)

	// Both tables arrive sorted descending by revenue.
	if len(tables.Periods) > 0 {
		summary.BestPeriod = tables.Periods[0].YearMonth
	}
	if len(tables.Products) > 0 {
		summary.TopProduct = tables.Products[0].ProductCode
	}

	return summary
}
