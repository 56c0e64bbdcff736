package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL          = "https://www.alphavantage.co/query"
	DefaultAPITimeout       = 30 * time.Second
	DefaultKeyLimit         = 25
	DefaultSoftBlockBackoff = 8 * time.Second
	DefaultMaxRotations     = 3
	DefaultVPNCommand       = "piactl"
	DefaultVPNTimeout       = 30 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultBatchSize        = 1000
	DefaultConcurrency      = 4
	DefaultInterval         = 24 * time.Hour
	DefaultMetricsPort      = 9090
	DefaultMetricsPath      = "/metrics"
)

func (c *FetcherConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Key pool defaults
	if c.Keys.Limit == 0 {
		c.Keys.Limit = DefaultKeyLimit
	}
	if c.Keys.SoftBlockBackoff == 0 {
		c.Keys.SoftBlockBackoff = DefaultSoftBlockBackoff
	}
	if c.Keys.MaxRotations == 0 {
		c.Keys.MaxRotations = DefaultMaxRotations
	}

	// VPN defaults
	if c.VPN.Command == "" {
		c.VPN.Command = DefaultVPNCommand
	}
	if c.VPN.Timeout == 0 {
		c.VPN.Timeout = DefaultVPNTimeout
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Writer defaults
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}

	// Pipelines defaults
	if c.Pipelines.Concurrency == 0 {
		c.Pipelines.Concurrency = DefaultConcurrency
	}
	if c.Pipelines.Interval == 0 {
		c.Pipelines.Interval = DefaultInterval
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
