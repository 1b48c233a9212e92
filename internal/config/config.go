// Package config loads and validates the collector's YAML configuration.
// Operational knobs (log level, metrics listener, run timeout) come from
// the environment instead; see cmd/collector.
package config

import (
	"fmt"
	"os"
	"time"

	"intelwatch/internal/domain/entity"
	pkgconfig "intelwatch/pkg/config"

	"gopkg.in/yaml.v3"
)

// ScrapingConfig tunes outbound fetch behavior.
type ScrapingConfig struct {
	// MinDelay is the minimum interval between requests to the same host.
	MinDelay time.Duration `yaml:"min_delay"`

	// MaxJitter is the upper bound of the random delay added on top of
	// MinDelay. Zero disables jitter.
	MaxJitter time.Duration `yaml:"max_jitter"`

	// Timeout bounds a single HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// MaxAttempts is the total attempts per request, first try included.
	MaxAttempts int `yaml:"max_attempts"`

	// MaxConcurrency bounds how many sources are collected in parallel.
	MaxConcurrency int `yaml:"max_concurrency"`

	// MaxArticlesPerSource caps candidates taken from one source per run.
	MaxArticlesPerSource int `yaml:"max_articles_per_source"`
}

// ValidationConfig tunes article quality checks.
type ValidationConfig struct {
	// MinTitleLength rejects titles shorter than this many characters.
	MinTitleLength int `yaml:"min_title_length"`

	// Stoplist rejects titles containing any of these phrases,
	// case-insensitively.
	Stoplist []string `yaml:"stoplist"`
}

// OutputConfig controls where reports and data files are written.
type OutputConfig struct {
	ReportsDir string `yaml:"reports_dir"`
	DataDir    string `yaml:"data_dir"`
}

// Config is the full collector configuration.
type Config struct {
	// UserAgents is the identity pool rotated across outbound requests.
	// Empty means a single built-in identity.
	UserAgents []string `yaml:"user_agents"`

	Scraping   ScrapingConfig   `yaml:"scraping"`
	Validation ValidationConfig `yaml:"validation"`
	Output     OutputConfig     `yaml:"output"`

	// EnrichSummaries enables fetching article pages to fill in missing
	// summaries. Off by default since it multiplies outbound requests.
	EnrichSummaries bool `yaml:"enrich_summaries"`

	Sources []entity.SourceConfig `yaml:"sources"`
}

// Default returns the configuration defaults applied before the YAML
// file is merged in.
func Default() Config {
	return Config{
		Scraping: ScrapingConfig{
			MinDelay:             2 * time.Second,
			MaxJitter:            1 * time.Second,
			Timeout:              30 * time.Second,
			MaxAttempts:          3,
			MaxConcurrency:       4,
			MaxArticlesPerSource: 10,
		},
		Validation: ValidationConfig{
			MinTitleLength: 10,
		},
		Output: OutputConfig{
			ReportsDir: "reports",
			DataDir:    "data",
		},
	}
}

// Load reads, parses, and validates the configuration at path.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration invariants. Source validation may
// normalize fields in place (default tier assignment).
func (c *Config) Validate() error {
	if err := pkgconfig.ValidatePositiveDuration(c.Scraping.MinDelay); err != nil {
		return fmt.Errorf("scraping.min_delay: %w", err)
	}
	if err := pkgconfig.ValidateNonNegativeDuration(c.Scraping.MaxJitter); err != nil {
		return fmt.Errorf("scraping.max_jitter: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Scraping.Timeout); err != nil {
		return fmt.Errorf("scraping.timeout: %w", err)
	}
	if err := pkgconfig.ValidateIntRange(c.Scraping.MaxAttempts, 1, 10); err != nil {
		return fmt.Errorf("scraping.max_attempts: %w", err)
	}
	if err := pkgconfig.ValidateIntRange(c.Scraping.MaxConcurrency, 1, 64); err != nil {
		return fmt.Errorf("scraping.max_concurrency: %w", err)
	}
	if err := pkgconfig.ValidateIntRange(c.Scraping.MaxArticlesPerSource, 1, 1000); err != nil {
		return fmt.Errorf("scraping.max_articles_per_source: %w", err)
	}
	if c.Validation.MinTitleLength < 1 {
		return fmt.Errorf("validation.min_title_length: must be at least 1, got %d", c.Validation.MinTitleLength)
	}

	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i := range c.Sources {
		src := &c.Sources[i]
		if err := src.Validate(); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
		if _, ok := seen[src.Name]; ok {
			return fmt.Errorf("sources[%d]: duplicate source name %q", i, src.Name)
		}
		seen[src.Name] = struct{}{}
	}

	return nil
}
