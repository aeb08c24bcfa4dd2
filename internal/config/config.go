package config

import (
	"fmt"
	"strings"
	"time"
)

// knownCountries is the set of publication-country filter values the search
// form accepts. An empty country means no country clause.
var knownCountries = map[string]bool{
	"EP": true, "US": true, "WO": true, "DE": true,
	"GB": true, "FR": true, "JP": true, "CN": true,
}

// AuthConfig holds the OPS client-credentials used for the one-time token
// exchange at the start of a run.
type AuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// OPSConfig holds endpoint and throttle tunables for the remote services.
// The defaults match the published OPS fair-use policy; lowering the delays
// risks 403/429 responses on long runs.
type OPSConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	RegisterBaseURL string        `mapstructure:"register_base_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	CallDelay       time.Duration `mapstructure:"call_delay"`
	WindowDelay     time.Duration `mapstructure:"window_delay"`
	RetryAfterLimit time.Duration `mapstructure:"retry_after_limit"`
}

// ExtractionConfig holds the search criteria and budget for one run.
// Multi-value filters are comma-separated lists.
type ExtractionConfig struct {
	Year             int    `mapstructure:"year"`
	RecordLimit      int    `mapstructure:"record_limit"`
	WindowSize       int    `mapstructure:"window_size"`
	TitleKeywords    string `mapstructure:"title_keywords"`
	AbstractKeywords string `mapstructure:"abstract_keywords"`
	Applicant        string `mapstructure:"applicant"`
	Inventor         string `mapstructure:"inventor"`
	IPC              string `mapstructure:"ipc"`
	CPC              string `mapstructure:"cpc"`
	Country          string `mapstructure:"country"`
}

// OutputConfig holds tabular-export parameters.
type OutputConfig struct {
	// Path is the CSV destination. Empty selects a timestamped filename
	// in the working directory.
	Path string `mapstructure:"path"`
}

// MetricsConfig holds the optional Prometheus scrape listener settings.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// Config is the root configuration structure for the extractor.
type Config struct {
	Auth       AuthConfig       `mapstructure:"auth"`
	OPS        OPSConfig        `mapstructure:"ops"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Output     OutputConfig     `mapstructure:"output"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error
// as fatal and refuse to start a run.
func (c *Config) Validate() error {
	// Credentials are deliberately not required here: they may arrive via
	// CLI flags after loading. The extract command checks them before a run.
	if c.OPS.BaseURL == "" {
		return fmt.Errorf("config: ops.base_url is required")
	}
	if c.OPS.RegisterBaseURL == "" {
		return fmt.Errorf("config: ops.register_base_url is required")
	}
	if c.OPS.RequestTimeout <= 0 {
		return fmt.Errorf("config: ops.request_timeout must be positive, got %v", c.OPS.RequestTimeout)
	}
	if c.OPS.CallDelay < 0 || c.OPS.WindowDelay < 0 {
		return fmt.Errorf("config: ops delays must not be negative")
	}

	if c.Extraction.Year < 1900 || c.Extraction.Year > 2100 {
		return fmt.Errorf("config: extraction.year %d is out of range [1900, 2100]", c.Extraction.Year)
	}
	if c.Extraction.RecordLimit < 1 {
		return fmt.Errorf("config: extraction.record_limit must be ≥ 1, got %d", c.Extraction.RecordLimit)
	}
	if c.Extraction.WindowSize < 1 || c.Extraction.WindowSize > 100 {
		return fmt.Errorf("config: extraction.window_size %d is out of range [1, 100]", c.Extraction.WindowSize)
	}
	for _, raw := range strings.Split(c.Extraction.Country, ",") {
		if cc := strings.ToUpper(strings.TrimSpace(raw)); cc != "" && !knownCountries[cc] {
			return fmt.Errorf("config: extraction.country %q is not a recognised publication country", raw)
		}
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("config: metrics.listen_addr is required when metrics are enabled")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
