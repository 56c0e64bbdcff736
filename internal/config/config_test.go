package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fetcher.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
instance:
  id: fetcher-1
keys:
  state_file: /var/lib/avdata/api_keys.json
database:
  postgres:
    host: localhost
    name: avdata
    user: avdata
    password: secret
`

func TestLoad(t *testing.T) {
	t.Run("parses all sections", func(t *testing.T) {
		path := writeConfig(t, `
instance:
  id: fetcher-1
api:
  base_url: https://example.com/query
  timeout: 10s
keys:
  state_file: /tmp/keys.json
  limit: 25
  soft_block_backoff: 8s
  max_rotations: 5
vpn:
  enabled: true
  command: /usr/local/bin/piactl
database:
  postgres:
    host: db.internal
    port: 5433
    name: avdata
    user: svc
    password: hunter2
pipelines:
  tickers: [AAPL, MSFT]
  concurrency: 8
  interval: 12h
metrics:
  port: 9100
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Instance.ID != "fetcher-1" {
			t.Errorf("instance.id = %q", cfg.Instance.ID)
		}
		if cfg.API.Timeout != 10*time.Second {
			t.Errorf("api.timeout = %v", cfg.API.Timeout)
		}
		if cfg.Keys.Limit != 25 || cfg.Keys.MaxRotations != 5 {
			t.Errorf("keys = %+v", cfg.Keys)
		}
		if !cfg.VPN.Enabled || cfg.VPN.Command != "/usr/local/bin/piactl" {
			t.Errorf("vpn = %+v", cfg.VPN)
		}
		if cfg.Database.Postgres.Port != 5433 {
			t.Errorf("postgres.port = %d", cfg.Database.Postgres.Port)
		}
		if len(cfg.Pipelines.Tickers) != 2 || cfg.Pipelines.Tickers[0] != "AAPL" {
			t.Errorf("tickers = %v", cfg.Pipelines.Tickers)
		}
		if cfg.Pipelines.Interval != 12*time.Hour {
			t.Errorf("interval = %v", cfg.Pipelines.Interval)
		}
		if cfg.Metrics.Port != 9100 {
			t.Errorf("metrics.port = %d", cfg.Metrics.Port)
		}
	})

	t.Run("expands environment variables", func(t *testing.T) {
		t.Setenv("AV_DB_PASSWORD", "from-env")
		path := writeConfig(t, strings.Replace(validYAML, "password: secret", "password: ${AV_DB_PASSWORD}", 1))

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Database.Postgres.Password != "from-env" {
			t.Errorf("password = %q, want from-env", cfg.Database.Postgres.Password)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("invalid yaml errors", func(t *testing.T) {
		path := writeConfig(t, "instance: [unclosed")
		if _, err := Load(path); err == nil {
			t.Fatal("expected error for invalid yaml")
		}
	})
}

func TestDefaults(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("base_url = %q, want default", cfg.API.BaseURL)
	}
	if cfg.Keys.Limit != DefaultKeyLimit {
		t.Errorf("keys.limit = %d, want %d", cfg.Keys.Limit, DefaultKeyLimit)
	}
	if cfg.Keys.SoftBlockBackoff != DefaultSoftBlockBackoff {
		t.Errorf("soft_block_backoff = %v, want %v", cfg.Keys.SoftBlockBackoff, DefaultSoftBlockBackoff)
	}
	if cfg.VPN.Command != DefaultVPNCommand {
		t.Errorf("vpn.command = %q, want %q", cfg.VPN.Command, DefaultVPNCommand)
	}
	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("postgres.port = %d, want %d", cfg.Database.Postgres.Port, DefaultDBPort)
	}
	if cfg.Database.Postgres.SSLMode != DefaultDBSSLMode {
		t.Errorf("ssl_mode = %q, want %q", cfg.Database.Postgres.SSLMode, DefaultDBSSLMode)
	}
	if cfg.Pipelines.Concurrency != DefaultConcurrency {
		t.Errorf("concurrency = %d, want %d", cfg.Pipelines.Concurrency, DefaultConcurrency)
	}
	if cfg.Metrics.Port != DefaultMetricsPort || cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("metrics = %+v, want defaults", cfg.Metrics)
	}
}

func TestValidate(t *testing.T) {
	base := func() *FetcherConfig {
		path := writeConfig(t, validYAML)
		cfg, err := LoadWithDefaults(path)
		if err != nil {
			t.Fatalf("LoadWithDefaults: %v", err)
		}
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := base().Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*FetcherConfig)
		want   string
	}{
		{"missing instance id", func(c *FetcherConfig) { c.Instance.ID = "" }, "instance.id"},
		{"missing state file", func(c *FetcherConfig) { c.Keys.StateFile = "" }, "keys.state_file"},
		{"zero key limit", func(c *FetcherConfig) { c.Keys.Limit = -1 }, "keys.limit"},
		{"missing db host", func(c *FetcherConfig) { c.Database.Postgres.Host = "" }, "database.postgres.host"},
		{"missing db password", func(c *FetcherConfig) { c.Database.Postgres.Password = "" }, "database.postgres.password"},
		{"min conns over max", func(c *FetcherConfig) { c.Database.Postgres.MinConns = 99 }, "min_conns"},
		{"bad metrics port", func(c *FetcherConfig) { c.Metrics.Port = 99999 }, "metrics.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
