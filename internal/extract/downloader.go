// Package extract obtains the raw record set: it downloads the source
// workbook (or reuses a cached copy) and parses it into transactions.
package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"retailetl/internal/config"
	"retailetl/internal/errors"
)

// Downloader fetches the source workbook over HTTP with a local cache.
type Downloader struct {
	logger    *slog.Logger
	cfg       config.DatasetConfig
	cachePath string
	client    *http.Client
}

// NewDownloader creates a downloader caching into the configured cache dir.
func NewDownloader(logger *slog.Logger, cfg config.DatasetConfig, paths *config.Paths) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		logger:    logger,
		cfg:       cfg,
		cachePath: paths.CachePath(cfg.CacheFile),
		client:    &http.Client{Timeout: cfg.DownloadTimeout},
	}
}

// Fetch returns the local path of the source workbook, downloading it only
// when no cached copy exists.
func (d *Downloader) Fetch(ctx context.Context) (string, error) {
	if config.FileExists(d.cachePath) {
		d.logger.Info("using cached source workbook", slog.String("path", d.cachePath))
		return d.cachePath, nil
	}

	d.logger.Info("downloading source workbook",
		slog.String("url", d.cfg.URL),
		slog.String("cache_path", d.cachePath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.URL, nil)
	if err != nil {
		return "", errors.NewExtractionError("extract.Fetch", "invalid dataset URL", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", errors.NewExtractionError("extract.Fetch", "source unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewExtractionError("extract.Fetch",
			fmt.Sprintf("download failed with status %d", resp.StatusCode), nil)
	}

	// Write to a temp file first so an interrupted download never poisons
	// the cache.
	tmp := d.cachePath + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", errors.NewExtractionError("extract.Fetch", "failed to create cache file", err)
	}

	written, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err != nil {
		os.Remove(tmp)
		return "", errors.NewExtractionError("extract.Fetch", "download interrupted", err)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return "", errors.NewExtractionError("extract.Fetch", "failed to flush cache file", closeErr)
	}
	if err := os.Rename(tmp, d.cachePath); err != nil {
		os.Remove(tmp)
		return "", errors.NewExtractionError("extract.Fetch", "failed to finalize cache file", err)
	}

	d.logger.Info("source workbook downloaded",
		slog.String("path", d.cachePath),
		slog.Int64("bytes", written))

	return d.cachePath, nil
}
