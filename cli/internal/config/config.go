package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zusistats/zusistats/pkg/analysis"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultFormat   = FormatText
	DefaultDebounce = 500 * time.Millisecond
)

// Output formats.
const (
	FormatText       = "text"
	FormatJSON       = "json"
	FormatPrometheus = "prometheus"
)

// Config is the top-level CLI configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	Watch    WatchConfig    `yaml:"watch"`
}

// AnalysisConfig selects the runs to analyse and how.
type AnalysisConfig struct {
	// Pattern is a glob matching the run files, e.g. "results/*.result.xml".
	Pattern string `yaml:"pattern"`

	// Algorithm names the pure average speed algorithm:
	// pure_driving_time | weighted_local_speeds. Empty selects the default.
	Algorithm string `yaml:"algorithm"`
}

// ParsedAlgorithm returns the configured algorithm.
func (a AnalysisConfig) ParsedAlgorithm() (analysis.Algorithm, error) {
	return analysis.ParseAlgorithm(a.Algorithm)
}

// OutputConfig controls the report.
type OutputConfig struct {
	// Format is one of: text | json | prometheus.
	Format string `yaml:"format"`

	// Chart is an optional PNG path for the speed profile chart.
	Chart string `yaml:"chart"`

	// Debug lists every analysed file and enables debug logging.
	Debug bool `yaml:"debug"`
}

// WatchConfig controls re-analysis on file changes.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`

	// Debounce coalesces bursts of file events before re-running.
	Debounce time.Duration `yaml:"debounce"`
}

// Overrides carries command-line values. Nil fields were not given.
type Overrides struct {
	Pattern   *string
	Algorithm *string
	Format    *string
	Chart     *string
	Debug     *bool
	Watch     *bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

// Load reads and parses the YAML config file at path on top of the
// defaults. The result still needs Validate once overrides are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	return cfg, nil
}

// Override applies every non-nil field of o.
func (c *Config) Override(o Overrides) {
	if o.Pattern != nil {
		c.Analysis.Pattern = *o.Pattern
	}
	if o.Algorithm != nil {
		c.Analysis.Algorithm = *o.Algorithm
	}
	if o.Format != nil {
		c.Output.Format = *o.Format
	}
	if o.Chart != nil {
		c.Output.Chart = *o.Chart
	}
	if o.Debug != nil {
		c.Output.Debug = *o.Debug
	}
	if o.Watch != nil {
		c.Watch.Enabled = *o.Watch
	}
}

// Validate checks required fields and structural constraints.
func (c *Config) Validate() error {
	if err := validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Output: OutputConfig{Format: DefaultFormat},
		Watch:  WatchConfig{Debounce: DefaultDebounce},
	}
}

func validate(cfg *Config) error {
	if cfg.Analysis.Pattern == "" {
		return fmt.Errorf("analysis.pattern is required")
	}
	if _, err := cfg.Analysis.ParsedAlgorithm(); err != nil {
		return fmt.Errorf("analysis.algorithm: %w", err)
	}
	switch cfg.Output.Format {
	case FormatText, FormatJSON, FormatPrometheus:
	default:
		return fmt.Errorf("output.format: unknown format %q", cfg.Output.Format)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}
