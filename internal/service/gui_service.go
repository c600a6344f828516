package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// GUIConfig controls how often prices are pushed to the display.
type GUIConfig struct {
	Stream     string
	Throttle   time.Duration
	MaxUpdates int
	Now        func() time.Time
}

// GUIService forwards prices to a display stream, at most one per throttle
// interval, and goes quiet after MaxUpdates accepted prices.
type GUIService struct {
	store  *soa.Store[domain.Price]
	sink   domain.HistoricalStore
	cfg    GUIConfig
	logger *slog.Logger

	// limiter holds one token refilled every Throttle, so accepted prices
	// are at least Throttle apart.
	limiter *rate.Limiter

	mu       sync.Mutex
	accepted int
}

// NewGUIService creates a GUIService writing to sink.
func NewGUIService(cfg GUIConfig, sink domain.HistoricalStore, logger *slog.Logger, opts ...soa.Option) *GUIService {
	if cfg.Stream == "" {
		cfg.Stream = "gui"
	}
	if cfg.Throttle == 0 {
		cfg.Throttle = 300 * time.Millisecond
	}
	if cfg.MaxUpdates == 0 {
		cfg.MaxUpdates = 100
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &GUIService{
		store:   soa.NewStore[domain.Price]("gui", logger, opts...),
		sink:    sink,
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(cfg.Throttle), 1),
	}
}

// OnMessage offers p to the display. It is dropped when the previous
// accepted price is younger than the throttle or the cap has been reached.
func (s *GUIService) OnMessage(ctx context.Context, p domain.Price) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accepted >= s.cfg.MaxUpdates {
		return nil
	}
	now := s.cfg.Now()
	if !s.limiter.AllowN(now, 1) {
		return nil
	}
	s.accepted++

	s.store.Put(p.Product.Ticker, p)
	rec := domain.HistoricalRecord{
		Stream:    s.cfg.Stream,
		Key:       p.Product.Ticker,
		Line:      p.String(),
		Timestamp: now,
	}
	if err := s.sink.Append(ctx, rec); err != nil {
		return fmt.Errorf("gui_service: append %q: %w", p.Product.Ticker, err)
	}
	return nil
}

// Accepted returns how many prices have been written to the display.
func (s *GUIService) Accepted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

// PriceListener subscribes the display to a price source.
func (s *GUIService) PriceListener() soa.Listener[domain.Price] {
	return soa.OnAdd(s.OnMessage)
}

func (s *GUIService) GetData(ticker string) domain.Price { return s.store.GetData(ticker) }

func (s *GUIService) AddListener(l soa.Listener[domain.Price]) { s.store.AddListener(l) }

func (s *GUIService) Listeners() []soa.Listener[domain.Price] { return s.store.Listeners() }
