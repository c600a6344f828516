package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/refdata"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// PositionService accumulates booked trades into per-book positions.
type PositionService struct {
	store  *soa.Store[domain.Position]
	logger *slog.Logger

	mu sync.Mutex
}

// NewPositionService creates an empty PositionService.
func NewPositionService(logger *slog.Logger, opts ...soa.Option) *PositionService {
	return &PositionService{
		store:  soa.NewStore[domain.Position]("position", logger, opts...),
		logger: logger,
	}
}

// AddTrade applies t to its product's position and publishes the result.
// Stored positions are never mutated in place; each update publishes a new
// copy.
func (s *PositionService) AddTrade(ctx context.Context, t domain.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticker := t.Product.Ticker
	pos, ok := s.store.Lookup(ticker)
	if ok {
		pos = pos.Clone()
	} else {
		pos = domain.NewPosition(productFor(t))
	}
	pos.Add(t.Book, t.Side.Sign()*t.Quantity)

	if err := s.store.Publish(ctx, ticker, pos); err != nil {
		return fmt.Errorf("position_service: publish %q: %w", ticker, err)
	}
	return nil
}

// productFor returns the reference bond for t's ticker, or the trade's own
// product when the ticker is not in the bond master.
func productFor(t domain.Trade) domain.Bond {
	if b, err := refdata.Bond(t.Product.Ticker); err == nil {
		return b
	}
	return t.Product
}

// TradeListener subscribes the service to a trade source.
func (s *PositionService) TradeListener() soa.Listener[domain.Trade] {
	return soa.OnAdd(s.AddTrade)
}

// OnMessage replaces the stored position for pos's ticker.
func (s *PositionService) OnMessage(ctx context.Context, pos domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Publish(ctx, pos.Product.Ticker, pos.Clone())
}

// GetData returns a copy of the position for ticker.
func (s *PositionService) GetData(ticker string) domain.Position {
	pos, ok := s.store.Lookup(ticker)
	if !ok {
		return domain.Position{}
	}
	return pos.Clone()
}

func (s *PositionService) AddListener(l soa.Listener[domain.Position]) { s.store.AddListener(l) }

func (s *PositionService) Listeners() []soa.Listener[domain.Position] { return s.store.Listeners() }
