// Package config defines the desk configuration and its validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by DESK_* environment variables.
type Config struct {
	Feeds    FeedsConfig    `toml:"feeds"`
	Output   OutputConfig   `toml:"output"`
	Desk     DeskConfig     `toml:"desk"`
	GUI      GUIConfig      `toml:"gui"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Metrics  MetricsConfig  `toml:"metrics"`
	LogLevel string         `toml:"log_level"`
}

// FeedsConfig names the input files, read in the order prices, trades,
// market data, inquiries. Relative names resolve against Dir.
type FeedsConfig struct {
	Dir        string `toml:"dir"`
	Prices     string `toml:"prices"`
	Trades     string `toml:"trades"`
	MarketData string `toml:"market_data"`
	Inquiries  string `toml:"inquiries"`
}

// OutputConfig names the historical files written under Dir.
type OutputConfig struct {
	Dir        string `toml:"dir"`
	Streaming  string `toml:"streaming"`
	Executions string `toml:"executions"`
	Positions  string `toml:"positions"`
	Risk       string `toml:"risk"`
	Inquiries  string `toml:"inquiries"`
	GUI        string `toml:"gui"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	Compress   bool   `toml:"compress"`
}

// DeskConfig holds the trading parameters of the simulated desk.
type DeskConfig struct {
	Venue string `toml:"venue"`
	// AggressingSpread is the top-of-book spread, in price points, at which
	// the execution algo crosses.
	AggressingSpread  float64  `toml:"aggressing_spread"`
	InquiryQuotePrice float64  `toml:"inquiry_quote_price"`
	Books             []string `toml:"books"`
}

// GUIConfig throttles the display stream.
type GUIConfig struct {
	Throttle   duration `toml:"throttle"`
	MaxUpdates int      `toml:"max_updates"`
}

// PostgresConfig holds connection parameters for the optional record table.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds connection parameters for the optional state mirror.
type RedisConfig struct {
	Enabled      bool   `toml:"enabled"`
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"pool_size"`
	MaxRetries   int    `toml:"max_retries"`
	TLSEnabled   bool   `toml:"tls_enabled"`
	KeyPrefix    string `toml:"key_prefix"`
	StreamMaxLen int64  `toml:"stream_max_len"`
}

// S3Config holds object storage settings for archiving run output.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	Prefix         string `toml:"prefix"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// MetricsConfig controls the Prometheus textfile written after a run.
type MetricsConfig struct {
	// Textfile is the output path. Empty disables the dump.
	Textfile string `toml:"textfile"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "300ms", "1s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config matching config.example.toml.
func Defaults() Config {
	return Config{
		Feeds: FeedsConfig{
			Dir:        "data",
			Prices:     "prices.txt",
			Trades:     "trades.txt",
			MarketData: "marketdata.txt",
			Inquiries:  "inquiries.txt",
		},
		Output: OutputConfig{
			Dir:        "output",
			Streaming:  "streaming.txt",
			Executions: "executions.txt",
			Positions:  "positions.txt",
			Risk:       "risk.txt",
			Inquiries:  "allinquiries.txt",
			GUI:        "gui.txt",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		Desk: DeskConfig{
			Venue:             "CME",
			AggressingSpread:  1.0 / 128.0,
			InquiryQuotePrice: 100,
			Books:             []string{"TRSY1", "TRSY2", "TRSY3"},
		},
		GUI: GUIConfig{
			Throttle:   duration{300 * time.Millisecond},
			MaxUpdates: 100,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "treasurydesk",
			User:          "desk",
			SSLMode:       "disable",
			PoolMaxConns:  4,
			PoolMinConns:  0,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			PoolSize:     10,
			MaxRetries:   3,
			KeyPrefix:    "desk",
			StreamMaxLen: 10000,
		},
		S3: S3Config{
			Region: "us-east-1",
			Prefix: "runs",
			UseSSL: true,
		},
		LogLevel: "info",
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validVenues = map[string]bool{
	"BROKERTEC": true,
	"ESPEED":    true,
	"CME":       true,
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Feeds.Prices == "" && c.Feeds.Trades == "" && c.Feeds.MarketData == "" && c.Feeds.Inquiries == "" {
		errs = append(errs, "feeds: at least one feed file must be set")
	}
	if c.Output.Dir == "" {
		errs = append(errs, "output: dir must not be empty")
	}
	if c.Output.MaxSizeMB < 1 {
		errs = append(errs, "output: max_size_mb must be >= 1")
	}
	if c.Output.MaxBackups < 0 {
		errs = append(errs, "output: max_backups must be >= 0")
	}

	if !validVenues[c.Desk.Venue] {
		errs = append(errs, fmt.Sprintf("desk: unknown venue %q (valid: BROKERTEC, ESPEED, CME)", c.Desk.Venue))
	}
	if c.Desk.AggressingSpread <= 0 {
		errs = append(errs, "desk: aggressing_spread must be > 0")
	}
	if c.Desk.InquiryQuotePrice <= 0 {
		errs = append(errs, "desk: inquiry_quote_price must be > 0")
	}
	if len(c.Desk.Books) == 0 {
		errs = append(errs, "desk: books must not be empty")
	}

	if c.GUI.Throttle.Duration < 0 {
		errs = append(errs, "gui: throttle must not be negative")
	}
	if c.GUI.MaxUpdates < 1 {
		errs = append(errs, "gui: max_updates must be >= 1")
	}

	if c.Postgres.Enabled {
		if c.Postgres.DSN == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
