package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zusistats/zusistats/pkg/analysis"
)

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based alert condition.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the deduplication key.
	Name string `yaml:"name"`

	// Condition is a simple expression: "idle_pct > 40",
	// "pure_average_speed_kmh < 30", "status == failed".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	// Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Default values for the server configuration.
const (
	DefaultHTTPPort          = 8080
	DefaultBroadcastInterval = 5 * time.Second
	DefaultDebounce          = 500 * time.Millisecond
)

// Config holds the configuration parsed from the `server:` section of the
// config file.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, /metrics and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port"`

	// Auth configures how the server authenticates REST clients.
	Auth AuthConfig `yaml:"auth"`

	// Results selects the run files the server keeps loaded.
	Results ResultsConfig `yaml:"results"`

	// BroadcastInterval is how often the summary is pushed to WebSocket clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// Alerts holds rule definitions and webhook delivery targets.
	Alerts AlertsConfig `yaml:"alerts"`
}

// AuthConfig controls client authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	// Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header name to read the key from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// ResultsConfig selects and analyses the watched run files.
type ResultsConfig struct {
	// Pattern is a glob such as "/data/*.result.xml". Only the pattern's
	// directory is watched.
	Pattern string `yaml:"pattern"`

	// Algorithm names the pure average speed algorithm:
	// pure_driving_time | weighted_local_speeds.
	Algorithm string `yaml:"algorithm"`

	// Debounce coalesces bursts of file events. Default: 500ms.
	Debounce time.Duration `yaml:"debounce"`
}

// ParsedAlgorithm returns the configured algorithm.
func (r ResultsConfig) ParsedAlgorithm() (analysis.Algorithm, error) {
	return analysis.ParseAlgorithm(r.Algorithm)
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
			Results: ResultsConfig{
				Debounce: DefaultDebounce,
			},
		},
	}
}

func validate(cfg *Config) error {
	s := cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	switch s.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", s.Auth.Mode)
	}
	if s.Results.Pattern == "" {
		return fmt.Errorf("server.results.pattern is required")
	}
	if _, err := s.Results.ParsedAlgorithm(); err != nil {
		return fmt.Errorf("server.results.algorithm: %w", err)
	}
	if s.Results.Debounce < 0 {
		return fmt.Errorf("server.results.debounce must not be negative")
	}
	if s.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	for i, r := range s.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("server.alerts.rules[%d]: name is required", i)
		}
		if r.Condition == "" {
			return fmt.Errorf("server.alerts.rules[%d] %q: condition is required", i, r.Name)
		}
	}
	for i, w := range s.Alerts.Webhooks {
		switch w.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("server.alerts.webhooks[%d]: unknown type %q", i, w.Type)
		}
	}
	return nil
}
