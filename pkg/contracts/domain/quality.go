package domain

import (
	"time"
)

// QualityMetric expresses one data-quality defect as an absolute count and a
// percentage of the raw input.
type QualityMetric struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// QualityReport quantifies defects found in the raw record set. Each metric
// counts rows failing that specific rule before any removal, so the report
// reflects raw-data defect rates rather than post-filter counts.
type QualityReport struct {
	TotalRows           int           `json:"total_rows"`
	CleanRows           int           `json:"clean_rows"`
	Duplicates          QualityMetric `json:"duplicates"`
	MissingCustomer     QualityMetric `json:"missing_customer"`
	NonPositiveQuantity QualityMetric `json:"non_positive_quantity"`
	PriceOutOfRange     QualityMetric `json:"price_out_of_range"`
}

// RunSummary carries the human-readable scalars of one pipeline run for the
// reporting collaborator.
type RunSummary struct {
	RunID           string                   `json:"run_id"`
	StartedAt       time.Time                `json:"started_at"`
	Duration        time.Duration            `json:"duration"`
	RawRows         int                      `json:"raw_rows"`
	CleanRows       int                      `json:"clean_rows"`
	TotalRevenue    float64                  `json:"total_revenue"`
	UniqueCustomers int                      `json:"unique_customers"`
	UniqueProducts  int                      `json:"unique_products"`
	BestPeriod      string                   `json:"best_period"`
	TopProduct      string                   `json:"top_product"`
	Quality         *QualityReport           `json:"quality"`
	StageDurations  map[string]time.Duration `json:"stage_durations"`
}
