package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// DefaultAggressingSpread is the top-of-book spread at which the algo crosses.
const DefaultAggressingSpread = 1.0 / 128.0

// AlgoExecutionConfig holds the tunables of the execution algo.
type AlgoExecutionConfig struct {
	// Spread is the exact best offer minus best bid that triggers an order.
	Spread float64
	// NewOrderID generates order ids. Defaults to random UUIDs.
	NewOrderID func() string
}

// AlgoExecutionService watches order books and sends a market order whenever
// the top-of-book spread equals the configured spread. It hits the bid and
// lifts the offer on alternate firings, starting with the bid.
type AlgoExecutionService struct {
	store  *soa.Store[domain.AlgoExecution]
	cfg    AlgoExecutionConfig
	logger *slog.Logger

	mu    sync.Mutex
	onBid bool
}

// NewAlgoExecutionService creates an AlgoExecutionService.
func NewAlgoExecutionService(cfg AlgoExecutionConfig, logger *slog.Logger, opts ...soa.Option) *AlgoExecutionService {
	if cfg.Spread == 0 {
		cfg.Spread = DefaultAggressingSpread
	}
	if cfg.NewOrderID == nil {
		cfg.NewOrderID = uuid.NewString
	}
	return &AlgoExecutionService{
		store:  soa.NewStore[domain.AlgoExecution]("algo_execution", logger, opts...),
		cfg:    cfg,
		logger: logger.With(slog.String("component", "algo_execution")),
		onBid:  true,
	}
}

// ExecuteOnBook evaluates book and publishes an AlgoExecution when it is
// tight enough. Books with an empty side are skipped.
//
// Prices on the feed are multiples of 1/256 so the spread comparison is exact.
func (s *AlgoExecutionService) ExecuteOnBook(ctx context.Context, book domain.OrderBook) error {
	bo, err := book.BestBidOffer()
	if errors.Is(err, domain.ErrNoLiquidity) {
		s.logger.WarnContext(ctx, "skipping one-sided book",
			slog.String("ticker", book.Product.Ticker),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("algo_execution_service: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if bo.Spread() != s.cfg.Spread {
		return nil
	}

	level, side := bo.Offer, domain.PricingSideOffer
	if s.onBid {
		level, side = bo.Bid, domain.PricingSideBid
	}
	s.onBid = !s.onBid

	order := domain.ExecutionOrder{
		Product:         book.Product,
		Side:            side,
		OrderID:         s.cfg.NewOrderID(),
		OrderType:       domain.OrderTypeMarket,
		Price:           level.Price,
		VisibleQuantity: level.Quantity,
		HiddenQuantity:  0,
		IsChildOrder:    false,
	}

	s.logger.DebugContext(ctx, "crossing spread",
		slog.String("ticker", book.Product.Ticker),
		slog.String("side", string(side)),
		slog.String("order_id", order.OrderID),
	)

	if err := s.store.Publish(ctx, book.Product.Ticker, domain.NewAlgoExecution(order)); err != nil {
		return fmt.Errorf("algo_execution_service: publish %q: %w", book.Product.Ticker, err)
	}
	return nil
}

// OrderBookListener subscribes the service to a market data source.
func (s *AlgoExecutionService) OrderBookListener() soa.Listener[domain.OrderBook] {
	return soa.OnAdd(s.ExecuteOnBook)
}

// OnMessage stores an externally built execution and notifies listeners.
func (s *AlgoExecutionService) OnMessage(ctx context.Context, a domain.AlgoExecution) error {
	return s.store.Publish(ctx, a.ExecutionOrder().Product.Ticker, a)
}

func (s *AlgoExecutionService) GetData(ticker string) domain.AlgoExecution {
	return s.store.GetData(ticker)
}

func (s *AlgoExecutionService) AddListener(l soa.Listener[domain.AlgoExecution]) {
	s.store.AddListener(l)
}

func (s *AlgoExecutionService) Listeners() []soa.Listener[domain.AlgoExecution] {
	return s.store.Listeners()
}
