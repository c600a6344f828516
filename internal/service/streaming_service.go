package service

import (
	"context"
	"log/slog"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// StreamingService publishes the quotes produced by the streaming algo.
type StreamingService struct {
	store  *soa.Store[domain.PriceStream]
	logger *slog.Logger
}

func NewStreamingService(logger *slog.Logger, opts ...soa.Option) *StreamingService {
	return &StreamingService{
		store:  soa.NewStore[domain.PriceStream]("streaming", logger, opts...),
		logger: logger,
	}
}

// PublishAlgoStream unwraps a and publishes its quote.
func (s *StreamingService) PublishAlgoStream(ctx context.Context, a domain.AlgoStream) error {
	return s.OnMessage(ctx, a.PriceStream())
}

// AlgoStreamListener subscribes the service to an algo stream source.
func (s *StreamingService) AlgoStreamListener() soa.Listener[domain.AlgoStream] {
	return soa.OnAdd(s.PublishAlgoStream)
}

func (s *StreamingService) OnMessage(ctx context.Context, ps domain.PriceStream) error {
	return s.store.Publish(ctx, ps.Product.Ticker, ps)
}

func (s *StreamingService) GetData(ticker string) domain.PriceStream { return s.store.GetData(ticker) }

func (s *StreamingService) AddListener(l soa.Listener[domain.PriceStream]) { s.store.AddListener(l) }

func (s *StreamingService) Listeners() []soa.Listener[domain.PriceStream] {
	return s.store.Listeners()
}
