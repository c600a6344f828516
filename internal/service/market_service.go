package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// MarketDataService keeps the latest order book per ticker.
type MarketDataService struct {
	store  *soa.Store[domain.OrderBook]
	logger *slog.Logger
}

// NewMarketDataService creates an empty MarketDataService.
func NewMarketDataService(logger *slog.Logger, opts ...soa.Option) *MarketDataService {
	return &MarketDataService{
		store:  soa.NewStore[domain.OrderBook]("market_data", logger, opts...),
		logger: logger,
	}
}

// OnMessage stores book under its ticker and notifies listeners.
func (s *MarketDataService) OnMessage(ctx context.Context, book domain.OrderBook) error {
	return s.store.Publish(ctx, book.Product.Ticker, book)
}

// GetBestBidOffer returns the best level on each side of the stored book.
func (s *MarketDataService) GetBestBidOffer(ticker string) (domain.BidOffer, error) {
	book, ok := s.store.Lookup(ticker)
	if !ok {
		return domain.BidOffer{}, fmt.Errorf("market_data_service: book %q: %w", ticker, domain.ErrNotFound)
	}
	bo, err := book.BestBidOffer()
	if err != nil {
		return domain.BidOffer{}, fmt.Errorf("market_data_service: %w", err)
	}
	return bo, nil
}

// AggregateDepth returns the stored book with equal-price levels merged.
func (s *MarketDataService) AggregateDepth(ticker string) (domain.OrderBook, error) {
	book, ok := s.store.Lookup(ticker)
	if !ok {
		return domain.OrderBook{}, fmt.Errorf("market_data_service: book %q: %w", ticker, domain.ErrNotFound)
	}
	return book.Aggregated(), nil
}

func (s *MarketDataService) GetData(ticker string) domain.OrderBook { return s.store.GetData(ticker) }

func (s *MarketDataService) AddListener(l soa.Listener[domain.OrderBook]) { s.store.AddListener(l) }

func (s *MarketDataService) Listeners() []soa.Listener[domain.OrderBook] {
	return s.store.Listeners()
}
