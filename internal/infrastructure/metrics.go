package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded during a pipeline run.
type PipelineMetrics struct {
	RowsExtracted metric.Int64Counter
	RowsClean     metric.Int64Counter
	RowsRemoved   metric.Int64Counter
	StageDuration metric.Float64Histogram
	RunsTotal     metric.Int64Counter
}

// NewPipelineMetrics registers the pipeline instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	if m.RowsExtracted, err = meter.Int64Counter("etl_rows_extracted_total",
		metric.WithDescription("Raw rows obtained from the extraction source")); err != nil {
		return nil, fmt.Errorf("failed to create rows_extracted counter: %w", err)
	}
	if m.RowsClean, err = meter.Int64Counter("etl_rows_clean_total",
		metric.WithDescription("Rows admitted to the clean set")); err != nil {
		return nil, fmt.Errorf("failed to create rows_clean counter: %w", err)
	}
	if m.RowsRemoved, err = meter.Int64Counter("etl_rows_removed_total",
		metric.WithDescription("Rows failing a quality rule, labelled by rule")); err != nil {
		return nil, fmt.Errorf("failed to create rows_removed counter: %w", err)
	}
	if m.StageDuration, err = meter.Float64Histogram("etl_stage_duration_seconds",
		metric.WithDescription("Wall-clock duration of each pipeline stage"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create stage_duration histogram: %w", err)
	}
	if m.RunsTotal, err = meter.Int64Counter("etl_runs_total",
		metric.WithDescription("Pipeline runs, labelled by outcome")); err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}

	return m, nil
}

// RecordRemoved records rows removed by one quality rule.
func (m *PipelineMetrics) RecordRemoved(ctx context.Context, rule string, count int) {
	if m == nil || m.RowsRemoved == nil {
		return
	}
	m.RowsRemoved.Add(ctx, int64(count), metric.WithAttributes(attribute.String("rule", rule)))
}

// RecordStage records one stage duration.
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil || m.StageDuration == nil {
		return
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordRun records a completed run outcome.
func (m *PipelineMetrics) RecordRun(ctx context.Context, success bool) {
	if m == nil || m.RunsTotal == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.RunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
