// Package pipeline orchestrates the batch run: extract, bronze store,
// quality filter, enrich, silver store, aggregate, gold store, report. The
// run is fully synchronous and a failure in any stage aborts the rest.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"retailetl/internal/aggregate"
	"retailetl/internal/config"
	"retailetl/internal/enrich"
	"retailetl/internal/errors"
	"retailetl/internal/infrastructure"
	"retailetl/internal/quality"
	"retailetl/internal/report"
	"retailetl/pkg/contracts/domain"
)

// Stage identifiers used for spans, metrics and the stage-duration report.
const (
	StageExtract   = "extract"
	StageBronze    = "bronze_store"
	StageFilter    = "quality_filter"
	StageEnrich    = "enrich"
	StageSilver    = "silver_store"
	StageAggregate = "aggregate"
	StageGold      = "gold_store"
	StageReport    = "report"
)

// Options wires a pipeline's collaborators. Extractor, Store and Reporter are
// required. Tracer and Metrics are optional; absent instruments are no-ops.
type Options struct {
	Logger    *slog.Logger
	Config    *config.Config
	Extractor Extractor
	Store     Store
	Reporter  Reporter
	Tracer    trace.Tracer
	Metrics   *infrastructure.PipelineMetrics
}

// Pipeline sequences the three medallion stages over one input snapshot.
type Pipeline struct {
	logger    *slog.Logger
	cfg       *config.Config
	extractor Extractor
	store     Store
	reporter  Reporter
	tracer    trace.Tracer
	metrics   *infrastructure.PipelineMetrics

	filter     *quality.Filter
	enricher   *enrich.Enricher
	aggregator *aggregate.Aggregator
}

// New creates a pipeline from its collaborators.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, errors.NewConfigError("pipeline.New", "configuration is required")
	}
	if opts.Extractor == nil {
		return nil, errors.NewConfigError("pipeline.New", "an extractor is required")
	}
	if opts.Store == nil {
		return nil, errors.NewConfigError("pipeline.New", "a store is required")
	}
	if opts.Reporter == nil {
		return nil, errors.NewConfigError("pipeline.New", "a reporter is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.TracerName)
	}

	return &Pipeline{
		logger:     logger,
		cfg:        opts.Config,
		extractor:  opts.Extractor,
		store:      opts.Store,
		reporter:   opts.Reporter,
		tracer:     tracer,
		metrics:    opts.Metrics,
		filter:     quality.NewFilter(logger, opts.Config.Quality),
		enricher:   enrich.NewEnricher(logger),
		aggregator: aggregate.NewAggregator(logger, opts.Config.Products, opts.Config.Segmentation),
	}, nil
}

// Run executes one batch run against a fresh input snapshot and returns the
// run summary. Configuration errors surface before any row is processed.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunSummary, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	startedAt := time.Now()
	durations := make(map[string]time.Duration)

	p.logger.Info("pipeline run started",
		slog.String("run_id", runID),
		slog.Time("started_at", startedAt))

	ctx, runSpan := p.tracer.Start(ctx, "pipeline.Run")
	defer runSpan.End()

	summary, err := p.run(ctx, runID, startedAt, durations)
	p.metrics.RecordRun(ctx, err == nil)
	if err != nil {
		p.logger.Error("pipeline run failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		return nil, err
	}

	p.logger.Info("pipeline run complete",
		slog.String("run_id", runID),
		slog.Duration("duration", summary.Duration),
		slog.Int("raw_rows", summary.RawRows),
		slog.Int("clean_rows", summary.CleanRows))

	return summary, nil
}

func (p *Pipeline) run(ctx context.Context, runID string, startedAt time.Time, durations map[string]time.Duration) (*domain.RunSummary, error) {
	var raw []domain.Transaction
	err := p.stage(ctx, StageExtract, durations, func(ctx context.Context) error {
		var err error
		raw, err = p.extractor.Extract(ctx)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			return errors.NewExtractionError(StageExtract, "source produced no records", nil)
		}
		if p.metrics != nil {
			p.metrics.RowsExtracted.Add(ctx, int64(len(raw)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageBronze, durations, func(ctx context.Context) error {
		return p.store.SaveBronze(ctx, startedAt, raw)
	})
	if err != nil {
		return nil, err
	}

	var (
		clean         []domain.Transaction
		qualityReport *domain.QualityReport
	)
	err = p.stage(ctx, StageFilter, durations, func(ctx context.Context) error {
		var err error
		clean, qualityReport, err = p.filter.Apply(raw)
		if err != nil {
			return err
		}
		if p.metrics != nil {
			p.metrics.RowsClean.Add(ctx, int64(len(clean)))
			p.metrics.RecordRemoved(ctx, quality.RuleDuplicate, qualityReport.Duplicates.Count)
			p.metrics.RecordRemoved(ctx, quality.RuleMissingCustomer, qualityReport.MissingCustomer.Count)
			p.metrics.RecordRemoved(ctx, quality.RuleQuantity, qualityReport.NonPositiveQuantity.Count)
			p.metrics.RecordRemoved(ctx, quality.RulePriceRange, qualityReport.PriceOutOfRange.Count)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var enriched []domain.EnrichedTransaction
	err = p.stage(ctx, StageEnrich, durations, func(ctx context.Context) error {
		enriched = p.enricher.Enrich(clean)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageSilver, durations, func(ctx context.Context) error {
		return p.store.SaveSilver(ctx, startedAt, enriched)
	})
	if err != nil {
		return nil, err
	}

	var tables *domain.GoldTables
	err = p.stage(ctx, StageAggregate, durations, func(ctx context.Context) error {
		var err error
		tables, err = p.aggregator.Run(ctx, enriched)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageGold, durations, func(ctx context.Context) error {
		return p.store.SaveGold(ctx, startedAt, tables)
	})
	if err != nil {
		return nil, err
	}

	summary := report.BuildSummary(runID, startedAt, time.Since(startedAt),
		len(raw), enriched, tables, qualityReport, durations)

	err = p.stage(ctx, StageReport, durations, func(ctx context.Context) error {
		return p.reporter.Report(ctx, summary)
	})
	if err != nil {
		return nil, err
	}
	summary.Duration = time.Since(startedAt)

	return summary, nil
}

// stage runs one pipeline stage with a span, timing and a coarse audit log.
func (p *Pipeline) stage(ctx context.Context, name string, durations map[string]time.Duration, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "stage."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	durations[name] = elapsed
	p.metrics.RecordStage(ctx, name, elapsed)

	if err != nil {
		p.logger.Error("stage failed",
			slog.String("stage", name),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
		return err
	}

	p.logger.Info("stage complete",
		slog.String("stage", name),
		slog.Duration("elapsed", elapsed))
	return nil
}
