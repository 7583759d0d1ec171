// Package enrich computes the derived fields of the silver layer. Enrichment
// is a pure, row-local projection: it never reorders, drops, or synthesizes
// rows.
package enrich

import (
	"log/slog"
	"strings"
	"time"

	"retailetl/pkg/contracts/domain"
)

// Enricher augments clean transactions with temporal and monetary fields.
type Enricher struct {
	logger *slog.Logger
}

// NewEnricher creates an enricher.
func NewEnricher(logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{logger: logger}
}

// Enrich returns the clean set augmented with derived fields, preserving row
// order. String fields are normalized here as well: descriptions are trimmed
// and upper-cased, identifiers and country trimmed.
func (e *Enricher) Enrich(clean []domain.Transaction) []domain.EnrichedTransaction {
	enriched := make([]domain.EnrichedTransaction, len(clean))
	for i, tx := range clean {
		enriched[i] = enrichRow(tx)
	}

	e.logger.Info("enrichment complete",
		slog.Int("rows", len(enriched)),
		slog.String("derived_fields", "total_price,year,month,year_month,day_of_week,day_name,hour,is_weekend"))

	return enriched
}

func enrichRow(tx domain.Transaction) domain.EnrichedTransaction {
	tx.OrderID = strings.TrimSpace(tx.OrderID)
	tx.ProductCode = strings.TrimSpace(tx.ProductCode)
	tx.Description = strings.ToUpper(strings.TrimSpace(tx.Description))
	tx.Country = strings.TrimSpace(tx.Country)

	ts := tx.TransactionTime
	weekday := isoWeekday(ts.Weekday())

	return domain.EnrichedTransaction{
		Transaction: tx,
		TotalPrice:  float64(tx.Quantity) * tx.UnitPrice,
		Year:        ts.Year(),
		Month:       int(ts.Month()),
		YearMonth:   ts.Format("2006-01"),
		DayOfWeek:   weekday,
		DayName:     ts.Weekday().String(),
		Hour:        ts.Hour(),
		IsWeekend:   weekday >= 5,
	}
}

// isoWeekday converts Go's Sunday-based weekday to ISO numbering, Monday = 0.
func isoWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}
