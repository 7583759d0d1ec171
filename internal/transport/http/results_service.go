package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"retailetl/internal/config"
	"retailetl/internal/exporter"
	"retailetl/internal/report"
	"retailetl/pkg/contracts/domain"
)

// ErrNoRuns is returned when no pipeline run has produced output yet.
var ErrNoRuns = fmt.Errorf("no pipeline run artifacts found")

// ResultsService reads the latest gold-layer artifacts from disk. Outputs are
// timestamped per run, so "latest" is simply the lexicographically greatest
// filename for a prefix.
type ResultsService struct {
	logger  *slog.Logger
	goldDir string
}

// NewResultsService creates a service over the configured gold directory.
func NewResultsService(logger *slog.Logger, paths *config.Paths) *ResultsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultsService{logger: logger, goldDir: paths.GoldDir}
}

// LatestTables loads the gold tables of the most recent run.
func (s *ResultsService) LatestTables() (*domain.GoldTables, error) {
	var tables domain.GoldTables
	if err := s.loadLatest(exporter.GoldTablesPrefix, &tables); err != nil {
		return nil, err
	}
	return &tables, nil
}

// LatestSummary loads the run summary of the most recent run.
func (s *ResultsService) LatestSummary() (*domain.RunSummary, error) {
	var summary domain.RunSummary
	if err := s.loadLatest(report.SummaryPrefix, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *ResultsService) loadLatest(prefix string, v interface{}) error {
	path, err := s.latestFile(prefix)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (s *ResultsService) latestFile(prefix string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.goldDir, prefix+"_*.json"))
	if err != nil {
		return "", fmt.Errorf("failed to list gold artifacts: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNoRuns
	}
	// Run-timestamped names sort chronologically as text.
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
