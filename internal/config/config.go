package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	pipeerrors "retailetl/internal/errors"
)

// Config represents the complete pipeline configuration. Values load from an
// optional YAML file first, then environment variables with the RETAIL prefix
// override them. The loaded value is immutable for the duration of a run;
// every stage receives it explicitly.
type Config struct {
	Dataset      DatasetConfig      `yaml:"dataset" envconfig:"DATASET"`
	Quality      QualityConfig      `yaml:"quality" envconfig:"QUALITY"`
	Segmentation SegmentationConfig `yaml:"segmentation" envconfig:"SEGMENTATION"`
	Products     ProductsConfig     `yaml:"products" envconfig:"PRODUCTS"`
	Logging      LoggingConfig      `yaml:"logging" envconfig:"LOGGING"`
	Server       ServerConfig       `yaml:"server" envconfig:"SERVER"`
	Paths        PathsConfig        `yaml:"paths" envconfig:"PATHS"`
}

// DatasetConfig describes where the raw workbook comes from.
type DatasetConfig struct {
	URL             string        `yaml:"url" envconfig:"URL" default:"https://archive.ics.uci.edu/ml/machine-learning-databases/00352/Online%20Retail.xlsx"`
	CacheFile       string        `yaml:"cache_file" envconfig:"CACHE_FILE" default:"online_retail.xlsx"`
	DownloadTimeout time.Duration `yaml:"download_timeout" envconfig:"DOWNLOAD_TIMEOUT" default:"5m"`
	SheetName       string        `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"Online Retail"`
}

// QualityConfig holds the thresholds applied by the quality filter.
// MinQuantity is an inclusive lower bound: a row passes when its quantity is
// at least MinQuantity. The price bounds are both inclusive.
type QualityConfig struct {
	MinQuantity  int     `yaml:"min_quantity" envconfig:"MIN_QUANTITY" default:"1"`
	MinUnitPrice float64 `yaml:"min_unit_price" envconfig:"MIN_UNIT_PRICE" default:"0.01"`
	MaxUnitPrice float64 `yaml:"max_unit_price" envconfig:"MAX_UNIT_PRICE" default:"10000"`
}

// SegmentationConfig holds the spend boundaries for customer segmentation.
// Both boundaries are inclusive on their lower edge: spend at MediumSpend is
// Medium, spend at HighSpend is High.
type SegmentationConfig struct {
	MediumSpend float64 `yaml:"medium_spend" envconfig:"MEDIUM_SPEND" default:"1000"`
	HighSpend   float64 `yaml:"high_spend" envconfig:"HIGH_SPEND" default:"5000"`
}

// ProductsConfig configures the top-products table.
type ProductsConfig struct {
	TopN int `yaml:"top_n" envconfig:"TOP_N" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/etl.log"`
}

// ServerConfig contains configuration for the results server.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// PathsConfig contains the file system layout configuration.
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR" default:"data"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from an optional YAML file and the environment.
// Environment variables win over file values; both win over defaults.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Defaults first so a partial file does not zero the rest
	if err := envconfig.Process("RETAIL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			// Re-apply the environment so it keeps precedence
			if err := envconfig.Process("RETAIL", &cfg); err != nil {
				return nil, fmt.Errorf("failed to apply env overrides: %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile unmarshals the YAML file over cfg in place.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Validate fails fast on inverted or out-of-domain thresholds so a bad run
// never starts processing rows.
func (c *Config) Validate() error {
	if c.Quality.MinUnitPrice > c.Quality.MaxUnitPrice {
		return pipeerrors.NewConfigError("config.Validate",
			fmt.Sprintf("min_unit_price %.2f exceeds max_unit_price %.2f",
				c.Quality.MinUnitPrice, c.Quality.MaxUnitPrice))
	}
	if c.Segmentation.MediumSpend > c.Segmentation.HighSpend {
		return pipeerrors.NewConfigError("config.Validate",
			fmt.Sprintf("medium_spend %.2f exceeds high_spend %.2f",
				c.Segmentation.MediumSpend, c.Segmentation.HighSpend))
	}
	if c.Segmentation.MediumSpend < 0 {
		return pipeerrors.NewConfigError("config.Validate", "segment thresholds must not be negative")
	}
	if c.Products.TopN <= 0 {
		return pipeerrors.NewConfigError("config.Validate", "products.top_n must be positive")
	}
	if c.Dataset.URL == "" {
		return pipeerrors.NewConfigError("config.Validate", "dataset.url must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return pipeerrors.NewConfigError("config.Validate",
			fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}
	return nil
}
