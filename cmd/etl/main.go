package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailetl/internal/config"
	"retailetl/internal/exporter"
	"retailetl/internal/extract"
	"retailetl/internal/infrastructure"
	"retailetl/internal/pipeline"
	"retailetl/internal/report"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	datasetURL := flag.String("url", "", "override the dataset URL")
	baseDir := flag.String("data", "", "override the data directory")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *datasetURL != "" {
		cfg.Dataset.URL = *datasetURL
	}
	if *baseDir != "" {
		cfg.Paths.BaseDir = *baseDir
	}

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("OpenTelemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		logger.Error("Failed to create pipeline metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}

	p, err := pipeline.New(pipeline.Options{
		Logger:    logger,
		Config:    cfg,
		Extractor: extract.NewExcelExtractor(logger, cfg.Dataset, paths),
		Store:     exporter.NewCSVStore(logger, paths),
		Reporter:  report.NewSummaryReporter(logger, paths),
		Tracer:    providers.Tracer,
		Metrics:   metrics,
	})
	if err != nil {
		logger.Error("Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("Pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Run %s complete in %s\n", summary.RunID, summary.Duration.Round(time.Millisecond))
	fmt.Printf("Rows: %d raw, %d clean\n", summary.RawRows, summary.CleanRows)
	fmt.Printf("Revenue: %.2f across %d customers and %d products\n",
		summary.TotalRevenue, summary.UniqueCustomers, summary.UniqueProducts)
	fmt.Printf("Best period: %s, top product: %s\n", summary.BestPeriod, summary.TopProduct)
}
