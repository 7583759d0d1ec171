package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Paths is the single source of truth for the medallion directory layout.
//
//	<base>/
//	  ├── bronze/   raw extraction snapshots
//	  ├── silver/   clean, enriched record sets
//	  ├── gold/     aggregate tables and run summaries
//	  └── cache/    downloaded source workbooks
//	<logs>/         pipeline logs
type Paths struct {
	BaseDir   string
	BronzeDir string
	SilverDir string
	GoldDir   string
	CacheDir  string
	LogsDir   string
}

// RunTimestampFormat names output files per run so no prior output is ever
// mutated in place.
const RunTimestampFormat = "20060102_150405"

// NewPaths builds the medallion layout under the configured base directory.
func NewPaths(cfg PathsConfig) *Paths {
	base := cfg.BaseDir
	if base == "" {
		base = "data"
	}
	logs := cfg.LogsDir
	if logs == "" {
		logs = "logs"
	}
	return &Paths{
		BaseDir:   base,
		BronzeDir: filepath.Join(base, "bronze"),
		SilverDir: filepath.Join(base, "silver"),
		GoldDir:   filepath.Join(base, "gold"),
		CacheDir:  filepath.Join(base, "cache"),
		LogsDir:   logs,
	}
}

// EnsureDirectories creates the full directory structure.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.BronzeDir, p.SilverDir, p.GoldDir, p.CacheDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// TimestampedFile returns dir/<prefix>_<run timestamp>.<ext>.
func (p *Paths) TimestampedFile(dir, prefix, ext string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", prefix, t.Format(RunTimestampFormat), ext))
}

// CachePath returns the location of a cached download.
func (p *Paths) CachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// LogPath returns the location of a log file.
func (p *Paths) LogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
