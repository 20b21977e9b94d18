package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, int64(11150), cfg.Scan.StartID)
	require.Equal(t, 20, cfg.Scan.TargetCount)
	require.Equal(t, 50, cfg.Scan.BatchSize)
	require.Equal(t, 10, cfg.Scan.Concurrency)
	require.Equal(t, "https://www.umbodsmadur.is/alit-og-bref", cfg.Site.BaseURL)
	require.Equal(t, 3, cfg.HTTP.MaxAttempts)
	require.Equal(t, 10*time.Second, cfg.Timeout())
	require.Equal(t, 250*time.Millisecond, cfg.BackoffInitial())
	require.Equal(t, 5*time.Second, cfg.BackoffMax())
	require.Equal(t, "output/cases.json", cfg.Output.Path)
	require.False(t, cfg.Server.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casescan.yaml")
	yaml := `scan:
  start_id: 9000
  target_count: 5
  floor_id: 8000
http:
  max_attempts: 5
output:
  path: /tmp/out.json
  pretty: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(9000), cfg.Scan.StartID)
	require.Equal(t, 5, cfg.Scan.TargetCount)
	require.Equal(t, int64(8000), cfg.Scan.FloorID)
	require.Equal(t, 5, cfg.HTTP.MaxAttempts)
	require.Equal(t, "/tmp/out.json", cfg.Output.Path)
	require.False(t, cfg.Output.Pretty)
	// Untouched keys keep their defaults.
	require.Equal(t, 50, cfg.Scan.BatchSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CASESCAN_SCAN_TARGET_COUNT", "7")
	t.Setenv("CASESCAN_OUTPUT_PATH", "env.json")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Scan.TargetCount)
	require.Equal(t, "env.json", cfg.Output.Path)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero start id", mutate: func(c *Config) { c.Scan.StartID = 0 }},
		{name: "zero target", mutate: func(c *Config) { c.Scan.TargetCount = 0 }},
		{name: "negative floor", mutate: func(c *Config) { c.Scan.FloorID = -1 }},
		{name: "floor above start", mutate: func(c *Config) { c.Scan.FloorID = c.Scan.StartID + 1 }},
		{name: "zero batch", mutate: func(c *Config) { c.Scan.BatchSize = 0 }},
		{name: "zero concurrency", mutate: func(c *Config) { c.Scan.Concurrency = 0 }},
		{name: "bad base url", mutate: func(c *Config) { c.Site.BaseURL = "not a url" }},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTP.TimeoutSeconds = 0 }},
		{name: "zero attempts", mutate: func(c *Config) { c.HTTP.MaxAttempts = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.HTTP.RatePerSecond = -1 }},
		{name: "empty output path", mutate: func(c *Config) { c.Output.Path = "" }},
		{name: "server enabled without port", mutate: func(c *Config) { c.Server.Enabled = true; c.Server.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, base().Validate())
}
