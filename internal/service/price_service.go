package service

import (
	"context"
	"log/slog"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// PricingService holds the latest internal price per ticker and forwards
// every price to its listeners (algo streaming, GUI).
type PricingService struct {
	store  *soa.Store[domain.Price]
	logger *slog.Logger
}

// NewPricingService creates an empty PricingService.
func NewPricingService(logger *slog.Logger, opts ...soa.Option) *PricingService {
	return &PricingService{
		store:  soa.NewStore[domain.Price]("pricing", logger, opts...),
		logger: logger,
	}
}

// OnMessage stores p under its ticker and notifies listeners.
func (s *PricingService) OnMessage(ctx context.Context, p domain.Price) error {
	return s.store.Publish(ctx, p.Product.Ticker, p)
}

func (s *PricingService) GetData(ticker string) domain.Price { return s.store.GetData(ticker) }

func (s *PricingService) AddListener(l soa.Listener[domain.Price]) { s.store.AddListener(l) }

func (s *PricingService) Listeners() []soa.Listener[domain.Price] { return s.store.Listeners() }
