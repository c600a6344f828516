// Package app provides the top-level application lifecycle for the desk. It
// wires the output backends, connects the services, replays the feed files
// in order and archives the run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alanyoungcy/treasurydesk/internal/config"
	"github.com/alanyoungcy/treasurydesk/internal/feed"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time
	closers []func()

	desk *Desk
	deps *Dependencies
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
		now:    time.Now,
	}
}

// Run wires all dependencies, replays the prices, trades, market data and
// inquiries feeds in that order, then flushes the output and archives it. It
// returns early with ctx.Err() when the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting desk",
		slog.String("log_level", a.cfg.LogLevel),
		slog.String("venue", a.cfg.Desk.Venue),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)
	a.deps = deps
	a.desk = NewDesk(a.cfg, deps, a.now, a.logger)

	runLog := a.logger.With(slog.String("run_id", deps.RunID))

	feeds := []struct {
		name    string
		file    string
		consume func(context.Context, *os.File) (feed.Stats, error)
	}{
		{feed.FeedPrices, a.cfg.Feeds.Prices, func(ctx context.Context, f *os.File) (feed.Stats, error) {
			return feed.NewPriceConnector(a.desk.Pricing, deps.Metrics, a.logger).Consume(ctx, f)
		}},
		{feed.FeedTrades, a.cfg.Feeds.Trades, func(ctx context.Context, f *os.File) (feed.Stats, error) {
			return feed.NewTradeConnector(a.desk.TradeBooking, deps.Metrics, a.logger).Consume(ctx, f)
		}},
		{feed.FeedMarketData, a.cfg.Feeds.MarketData, func(ctx context.Context, f *os.File) (feed.Stats, error) {
			return feed.NewMarketDataConnector(a.desk.MarketData, deps.Metrics, a.logger).Consume(ctx, f)
		}},
		{feed.FeedInquiries, a.cfg.Feeds.Inquiries, func(ctx context.Context, f *os.File) (feed.Stats, error) {
			return feed.NewInquiryConnector(a.desk.Inquiry, deps.Metrics, a.logger).Consume(ctx, f)
		}},
	}

	for _, fd := range feeds {
		if fd.file == "" {
			continue
		}
		path := a.feedPath(fd.file)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			runLog.WarnContext(ctx, "feed file missing, skipping",
				slog.String("feed", fd.name),
				slog.String("path", path),
			)
			continue
		}
		if err != nil {
			return fmt.Errorf("app: open %s feed: %w", fd.name, err)
		}

		start := time.Now()
		stats, err := fd.consume(ctx, f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("app: consume %s feed: %w", fd.name, err)
		}
		runLog.InfoContext(ctx, "feed consumed",
			slog.String("feed", fd.name),
			slog.Int("accepted", stats.Accepted),
			slog.Int("skipped", stats.Skipped),
			slog.Int("failed", stats.Failed),
			slog.Duration("elapsed", time.Since(start)),
		)
	}

	if err := deps.Sink.Close(); err != nil {
		return fmt.Errorf("app: flush output: %w", err)
	}

	if deps.Archiver != nil {
		n, err := deps.Archiver.ArchiveRun(ctx, deps.RunID, deps.Files.Paths())
		deps.Metrics.Archived(n)
		if err != nil {
			return fmt.Errorf("app: archive run: %w", err)
		}
		runLog.InfoContext(ctx, "run archived", slog.Int("files", n))
	}

	if a.cfg.Metrics.Textfile != "" {
		if err := deps.Metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("app: %w", err)
		}
	}

	runLog.InfoContext(ctx, "desk run complete",
		slog.Int("gui_updates", a.desk.GUI.Accepted()),
	)
	return nil
}

// Desk returns the connected services after Run has wired them.
func (a *App) Desk() *Desk {
	return a.desk
}

func (a *App) feedPath(name string) string {
	if filepath.IsAbs(name) || a.cfg.Feeds.Dir == "" {
		return name
	}
	return filepath.Join(a.cfg.Feeds.Dir, name)
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down desk")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
