// Package config loads and validates scan configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	Site    SiteConfig    `mapstructure:"site"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Output  OutputConfig  `mapstructure:"output"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ScanConfig governs the backward ID scan.
type ScanConfig struct {
	StartID     int64 `mapstructure:"start_id"`
	TargetCount int   `mapstructure:"target_count"`
	FloorID     int64 `mapstructure:"floor_id"`
	BatchSize   int   `mapstructure:"batch_size"`
	Concurrency int   `mapstructure:"concurrency"`
}

// SiteConfig identifies the target site.
type SiteConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	UserAgent     string `mapstructure:"user_agent"`
	RespectRobots bool   `mapstructure:"respect_robots"`
}

// HTTPConfig configures HTTP client retry and politeness behavior.
type HTTPConfig struct {
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"`
	MaxAttempts      int     `mapstructure:"max_attempts"`
	BackoffInitialMs int     `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int     `mapstructure:"backoff_max_ms"`
	RatePerSecond    float64 `mapstructure:"rate_per_second"`
	RateBurst        int     `mapstructure:"rate_burst"`
}

// OutputConfig sets the JSON output destination.
type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Pretty bool   `mapstructure:"pretty"`
}

// ServerConfig controls the optional status/metrics HTTP server.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CASESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.start_id", 11150)
	v.SetDefault("scan.target_count", 20)
	v.SetDefault("scan.floor_id", 0)
	v.SetDefault("scan.batch_size", 50)
	v.SetDefault("scan.concurrency", 10)
	v.SetDefault("site.base_url", "https://www.umbodsmadur.is/alit-og-bref")
	v.SetDefault("site.user_agent", "umbodsmadur-crawler/1.0 (+https://github.com/althingi-data/umbodsmadur-crawler)")
	v.SetDefault("site.respect_robots", false)
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("http.max_attempts", 3)
	v.SetDefault("http.backoff_initial_ms", 250)
	v.SetDefault("http.backoff_max_ms", 5000)
	v.SetDefault("http.rate_per_second", 10)
	v.SetDefault("http.rate_burst", 10)
	v.SetDefault("output.path", "output/cases.json")
	v.SetDefault("output.pretty", true)
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits. These are the
// only fatal errors; everything past startup degrades per-candidate.
func (c Config) Validate() error {
	if c.Scan.StartID <= 0 {
		return fmt.Errorf("scan.start_id must be > 0")
	}
	if c.Scan.TargetCount <= 0 {
		return fmt.Errorf("scan.target_count must be > 0")
	}
	if c.Scan.FloorID < 0 {
		return fmt.Errorf("scan.floor_id must be >= 0")
	}
	if c.Scan.FloorID > c.Scan.StartID {
		return fmt.Errorf("scan.floor_id must not exceed scan.start_id")
	}
	if c.Scan.BatchSize <= 0 {
		return fmt.Errorf("scan.batch_size must be > 0")
	}
	if c.Scan.Concurrency <= 0 {
		return fmt.Errorf("scan.concurrency must be > 0")
	}
	if _, err := url.ParseRequestURI(c.Site.BaseURL); err != nil {
		return fmt.Errorf("site.base_url is not a valid URL: %w", err)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxAttempts <= 0 {
		return fmt.Errorf("http.max_attempts must be > 0")
	}
	if c.HTTP.RatePerSecond < 0 {
		return fmt.Errorf("http.rate_per_second must be >= 0")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must be set")
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when the status server is enabled")
	}
	return nil
}

// Timeout converts the HTTP timeout into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BackoffInitial converts the initial backoff into a duration.
func (c Config) BackoffInitial() time.Duration {
	return time.Duration(c.HTTP.BackoffInitialMs) * time.Millisecond
}

// BackoffMax converts the backoff cap into a duration.
func (c Config) BackoffMax() time.Duration {
	return time.Duration(c.HTTP.BackoffMaxMs) * time.Millisecond
}
