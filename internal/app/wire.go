package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	s3blob "github.com/alanyoungcy/treasurydesk/internal/blob/s3"
	"github.com/alanyoungcy/treasurydesk/internal/cache/redis"
	"github.com/alanyoungcy/treasurydesk/internal/config"
	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/metrics"
	"github.com/alanyoungcy/treasurydesk/internal/store"
	"github.com/alanyoungcy/treasurydesk/internal/store/file"
	"github.com/alanyoungcy/treasurydesk/internal/store/postgres"
)

// Historical stream names. Each maps to one output file.
const (
	StreamStreaming  = "streaming"
	StreamExecutions = "executions"
	StreamPositions  = "positions"
	StreamRisk       = "risk"
	StreamInquiries  = "inquiries"
	StreamGUI        = "gui"
)

// Dependencies bundles the infrastructure the desk writes through. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	RunID   string
	Metrics *metrics.Metrics

	// Files is always present; Sink fans out to Files plus every optional
	// backend that is enabled.
	Files *file.Store
	Sink  domain.HistoricalStore

	// Archiver is nil unless S3 is enabled.
	Archiver domain.Archiver
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		RunID:   uuid.NewString(),
		Metrics: metrics.New(),
	}

	// --- Output files ---
	files, err := file.New(file.Config{
		Dir: cfg.Output.Dir,
		Files: map[string]string{
			StreamStreaming:  cfg.Output.Streaming,
			StreamExecutions: cfg.Output.Executions,
			StreamPositions:  cfg.Output.Positions,
			StreamRisk:       cfg.Output.Risk,
			StreamInquiries:  cfg.Output.Inquiries,
			StreamGUI:        cfg.Output.GUI,
		},
		MaxSizeMB:  cfg.Output.MaxSizeMB,
		MaxBackups: cfg.Output.MaxBackups,
		Compress:   cfg.Output.Compress,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wire: output files: %w", err)
	}
	deps.Files = files
	sinks := store.Multi{files}

	// --- PostgreSQL ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		sinks = append(sinks, postgres.NewHistoricalStore(pgClient.Pool(), deps.RunID))
		logger.InfoContext(ctx, "postgres history enabled")
	}

	// --- Redis ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		cache := redis.NewStateCache(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.StreamMaxLen)
		sinks = append(sinks, store.Mirror{Cache: cache})
		logger.InfoContext(ctx, "redis state mirror enabled", slog.String("addr", cfg.Redis.Addr))
	}

	// --- S3 ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		if err := s3Client.Health(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: %w", err)
		}
		deps.Archiver = s3blob.NewRunArchiver(s3blob.NewWriter(s3Client), cfg.S3.Prefix)
		logger.InfoContext(ctx, "s3 archiving enabled", slog.String("bucket", cfg.S3.Bucket))
	}

	deps.Sink = sinks
	// Sinks close before the clients they write through.
	closers = append(closers, func() {
		if err := sinks.Close(); err != nil {
			logger.Error("close historical sinks", slog.String("error", err.Error()))
		}
	})

	return deps, cleanup, nil
}
