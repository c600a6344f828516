package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load merges the TOML file at path over Defaults and applies DESK_*
// environment overrides. An empty path skips the file. The returned Config
// has NOT been validated; call Config.Validate after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// ── Feeds ──
	setStr(&cfg.Feeds.Dir, "DESK_FEEDS_DIR")
	setStr(&cfg.Feeds.Prices, "DESK_FEEDS_PRICES")
	setStr(&cfg.Feeds.Trades, "DESK_FEEDS_TRADES")
	setStr(&cfg.Feeds.MarketData, "DESK_FEEDS_MARKET_DATA")
	setStr(&cfg.Feeds.Inquiries, "DESK_FEEDS_INQUIRIES")

	// ── Output ──
	setStr(&cfg.Output.Dir, "DESK_OUTPUT_DIR")
	setInt(&cfg.Output.MaxSizeMB, "DESK_OUTPUT_MAX_SIZE_MB")
	setInt(&cfg.Output.MaxBackups, "DESK_OUTPUT_MAX_BACKUPS")
	setBool(&cfg.Output.Compress, "DESK_OUTPUT_COMPRESS")

	// ── Desk ──
	setStr(&cfg.Desk.Venue, "DESK_VENUE")
	setFloat64(&cfg.Desk.AggressingSpread, "DESK_AGGRESSING_SPREAD")
	setFloat64(&cfg.Desk.InquiryQuotePrice, "DESK_INQUIRY_QUOTE_PRICE")
	setStringSlice(&cfg.Desk.Books, "DESK_BOOKS")

	// ── GUI ──
	setDuration(&cfg.GUI.Throttle, "DESK_GUI_THROTTLE")
	setInt(&cfg.GUI.MaxUpdates, "DESK_GUI_MAX_UPDATES")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "DESK_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "DESK_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "DESK_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "DESK_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "DESK_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "DESK_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "DESK_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "DESK_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "DESK_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "DESK_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "DESK_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "DESK_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "DESK_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "DESK_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "DESK_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "DESK_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "DESK_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "DESK_REDIS_TLS_ENABLED")
	setStr(&cfg.Redis.KeyPrefix, "DESK_REDIS_KEY_PREFIX")
	setInt64(&cfg.Redis.StreamMaxLen, "DESK_REDIS_STREAM_MAX_LEN")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "DESK_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "DESK_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "DESK_S3_REGION")
	setStr(&cfg.S3.Bucket, "DESK_S3_BUCKET")
	setStr(&cfg.S3.Prefix, "DESK_S3_PREFIX")
	setStr(&cfg.S3.AccessKey, "DESK_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "DESK_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "DESK_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "DESK_S3_FORCE_PATH_STYLE")

	// ── Top-level ──
	setStr(&cfg.Metrics.Textfile, "DESK_METRICS_TEXTFILE")
	setStr(&cfg.LogLevel, "DESK_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
