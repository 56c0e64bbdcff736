package config

import "time"

// FetcherConfig is the root configuration for a fetcher instance.
type FetcherConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	API       APIConfig       `yaml:"api"`
	Keys      KeysConfig      `yaml:"keys"`
	VPN       VPNConfig       `yaml:"vpn"`
	Database  DatabaseConfig  `yaml:"database"`
	Writer    WriterConfig    `yaml:"writer"`
	Pipelines PipelinesConfig `yaml:"pipelines"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// InstanceConfig identifies this fetcher.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds Alpha Vantage API settings.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// KeysConfig holds key-pool settings.
type KeysConfig struct {
	StateFile        string        `yaml:"state_file"`         // JSON file recording active/expired membership
	Limit            int           `yaml:"limit"`              // per-key call allowance per rotation window
	SoftBlockBackoff time.Duration `yaml:"soft_block_backoff"` // wait between soft block and retry
	MaxRotations     int           `yaml:"max_rotations"`      // soft-block recoveries per dispatch
}

// VPNConfig holds identity-rotation settings.
type VPNConfig struct {
	Enabled bool          `yaml:"enabled"`
	Command string        `yaml:"command"` // piactl binary path
	Timeout time.Duration `yaml:"timeout"`
}

// DatabaseConfig holds the PostgreSQL connection for fetched tables.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WriterConfig holds frame-ingestion settings.
type WriterConfig struct {
	BatchSize int `yaml:"batch_size"`
}

// PipelinesConfig holds fetch-pipeline settings.
type PipelinesConfig struct {
	Tickers     []string      `yaml:"tickers"`
	Concurrency int           `yaml:"concurrency"`
	Interval    time.Duration `yaml:"interval"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
