package pipeline

import (
	"context"
	"time"

	"retailetl/pkg/contracts/domain"
)

// Extractor obtains the raw record set from the source. Implementations are
// source-agnostic: file, HTTP download, or cached copy.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.Transaction, error)
}

// Store persists the three layers of one run. runTime is the run's start
// timestamp; implementations use it to produce fresh, timestamped outputs
// instead of mutating prior ones.
type Store interface {
	SaveBronze(ctx context.Context, runTime time.Time, raw []domain.Transaction) error
	SaveSilver(ctx context.Context, runTime time.Time, clean []domain.EnrichedTransaction) error
	SaveGold(ctx context.Context, runTime time.Time, tables *domain.GoldTables) error
}

// Reporter consumes the quality metrics and summary scalars of one run.
type Reporter interface {
	Report(ctx context.Context, summary *domain.RunSummary) error
}
