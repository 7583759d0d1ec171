// Package quality implements the validation rules that decide which raw
// records survive into the clean set, and quantifies the defects it finds.
package quality

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"retailetl/internal/config"
	"retailetl/internal/errors"
	"retailetl/pkg/contracts/domain"
)

// Rule names used for audit logging and metric labels.
const (
	RuleDuplicate       = "duplicate"
	RuleMissingCustomer = "missing_customer"
	RuleQuantity        = "non_positive_quantity"
	RulePriceRange      = "price_out_of_range"
)

// Filter applies the configured quality thresholds to a raw record set.
type Filter struct {
	logger *slog.Logger
	cfg    config.QualityConfig
}

// NewFilter creates a quality filter with the given thresholds.
func NewFilter(logger *slog.Logger, cfg config.QualityConfig) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{logger: logger, cfg: cfg}
}

// Apply produces the clean subset of raw and a quality report. The rules are
// independent predicates: each metric counts the rows failing that rule in
// the raw input, while the clean set is the intersection of all passes. Raw
// records are never mutated; surviving rows are copied, with a missing
// description filled with the sentinel.
func (f *Filter) Apply(raw []domain.Transaction) ([]domain.Transaction, *domain.QualityReport, error) {
	if f.cfg.MinUnitPrice > f.cfg.MaxUnitPrice {
		return nil, nil, errors.NewConfigError("quality.Apply",
			"price bounds inverted: min_unit_price exceeds max_unit_price")
	}

	report := &domain.QualityReport{TotalRows: len(raw)}
	seen := make(map[string]struct{}, len(raw))
	clean := make([]domain.Transaction, 0, len(raw))

	for _, tx := range raw {
		key := identityKey(tx)
		_, dup := seen[key]
		if dup {
			report.Duplicates.Count++
		} else {
			seen[key] = struct{}{}
		}

		hasCustomer := tx.HasCustomer()
		if !hasCustomer {
			report.MissingCustomer.Count++
		}

		quantityOK := tx.Quantity >= f.cfg.MinQuantity
		if !quantityOK {
			report.NonPositiveQuantity.Count++
		}

		priceOK := tx.UnitPrice >= f.cfg.MinUnitPrice && tx.UnitPrice <= f.cfg.MaxUnitPrice
		if !priceOK {
			report.PriceOutOfRange.Count++
		}

		if dup || !hasCustomer || !quantityOK || !priceOK {
			continue
		}

		kept := tx
		if strings.TrimSpace(kept.Description) == "" {
			kept.Description = domain.NoDescription
		}
		clean = append(clean, kept)
	}

	report.CleanRows = len(clean)
	finalize(report)

	f.logger.Info("quality filter applied",
		slog.Int("total_rows", report.TotalRows),
		slog.Int("clean_rows", report.CleanRows),
		slog.Int(RuleDuplicate, report.Duplicates.Count),
		slog.Int(RuleMissingCustomer, report.MissingCustomer.Count),
		slog.Int(RuleQuantity, report.NonPositiveQuantity.Count),
		slog.Int(RulePriceRange, report.PriceOutOfRange.Count))

	return clean, report, nil
}

// finalize fills in the percentages once all counts are known.
func finalize(r *domain.QualityReport) {
	r.Duplicates.Percent = percent(r.Duplicates.Count, r.TotalRows)
	r.MissingCustomer.Percent = percent(r.MissingCustomer.Count, r.TotalRows)
	r.NonPositiveQuantity.Percent = percent(r.NonPositiveQuantity.Count, r.TotalRows)
	r.PriceOutOfRange.Percent = percent(r.PriceOutOfRange.Count, r.TotalRows)
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// identityKey builds the exact full-row equality key used for duplicate
// detection. A nil customer is distinct from any numeric value.
func identityKey(t domain.Transaction) string {
	customer := "-"
	if t.CustomerID != nil {
		customer = strconv.FormatInt(*t.CustomerID, 10)
	}
	fields := []string{
		t.OrderID,
		t.ProductCode,
		t.Description,
		strconv.Itoa(t.Quantity),
		t.TransactionTime.Format(time.RFC3339Nano),
		strconv.FormatFloat(t.UnitPrice, 'g', -1, 64),
		customer,
		t.Country,
	}
	return strings.Join(fields, "\x1f")
}
