package service

import (
	"context"
	"log/slog"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// ExecutionService routes algo orders to a single venue and publishes them.
type ExecutionService struct {
	store  *soa.Store[domain.ExecutionOrder]
	venue  domain.Market
	logger *slog.Logger
}

// NewExecutionService creates an ExecutionService sending to venue. An empty
// venue means CME.
func NewExecutionService(venue domain.Market, logger *slog.Logger, opts ...soa.Option) *ExecutionService {
	if venue == "" {
		venue = domain.MarketCME
	}
	return &ExecutionService{
		store:  soa.NewStore[domain.ExecutionOrder]("execution", logger, opts...),
		venue:  venue,
		logger: logger,
	}
}

// Venue returns the market orders are sent to.
func (s *ExecutionService) Venue() domain.Market { return s.venue }

// ExecuteAlgo stamps the wrapped order with the venue and publishes it.
func (s *ExecutionService) ExecuteAlgo(ctx context.Context, a domain.AlgoExecution) error {
	return s.ExecuteOrder(ctx, a.ExecutionOrder(), s.venue)
}

// ExecuteOrder publishes order as executed on market.
func (s *ExecutionService) ExecuteOrder(ctx context.Context, order domain.ExecutionOrder, market domain.Market) error {
	order.Market = market
	return s.OnMessage(ctx, order)
}

// AlgoExecutionListener subscribes the service to an algo execution source.
func (s *ExecutionService) AlgoExecutionListener() soa.Listener[domain.AlgoExecution] {
	return soa.OnAdd(s.ExecuteAlgo)
}

func (s *ExecutionService) OnMessage(ctx context.Context, order domain.ExecutionOrder) error {
	return s.store.Publish(ctx, order.Product.Ticker, order)
}

func (s *ExecutionService) GetData(ticker string) domain.ExecutionOrder {
	return s.store.GetData(ticker)
}

func (s *ExecutionService) AddListener(l soa.Listener[domain.ExecutionOrder]) {
	s.store.AddListener(l)
}

func (s *ExecutionService) Listeners() []soa.Listener[domain.ExecutionOrder] {
	return s.store.Listeners()
}
