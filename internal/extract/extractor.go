package extract

import (
	"context"
	"log/slog"

	"retailetl/internal/config"
	"retailetl/pkg/contracts/domain"
)

// ExcelExtractor is the extraction collaborator used in production: it
// fetches the source workbook over HTTP (or from cache) and parses it.
type ExcelExtractor struct {
	logger     *slog.Logger
	downloader *Downloader
	sheetName  string
}

// NewExcelExtractor wires the downloader and parser together.
func NewExcelExtractor(logger *slog.Logger, cfg config.DatasetConfig, paths *config.Paths) *ExcelExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExtractor{
		logger:     logger,
		downloader: NewDownloader(logger, cfg, paths),
		sheetName:  cfg.SheetName,
	}
}

// Extract obtains the raw record set from the source.
func (e *ExcelExtractor) Extract(ctx context.Context) ([]domain.Transaction, error) {
	path, err := e.downloader.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return ParseWorkbook(e.logger, path, e.sheetName)
}
