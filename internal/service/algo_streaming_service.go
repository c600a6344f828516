package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// quoteQuantum is the smaller of the two visible sizes the algo alternates
// between.
const quoteQuantum int64 = 10_000_000

// AlgoStreamingService turns internal prices into two-way quotes. Visible size
// alternates between one and two quanta on every price, across all tickers;
// hidden size is always twice the visible size.
type AlgoStreamingService struct {
	store  *soa.Store[domain.AlgoStream]
	logger *slog.Logger

	mu           sync.Mutex
	singleQuanta bool
}

// NewAlgoStreamingService creates an AlgoStreamingService whose first quote
// shows one quantum.
func NewAlgoStreamingService(logger *slog.Logger, opts ...soa.Option) *AlgoStreamingService {
	return &AlgoStreamingService{
		store:        soa.NewStore[domain.AlgoStream]("algo_streaming", logger, opts...),
		logger:       logger,
		singleQuanta: true,
	}
}

// PublishPrice builds a quote around p and publishes it.
func (s *AlgoStreamingService) PublishPrice(ctx context.Context, p domain.Price) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := quoteQuantum
	if !s.singleQuanta {
		visible = 2 * quoteQuantum
	}
	s.singleQuanta = !s.singleQuanta

	stream := domain.PriceStream{
		Product: p.Product,
		BidOrder: domain.PriceStreamOrder{
			Price:           p.Bid(),
			VisibleQuantity: visible,
			HiddenQuantity:  2 * visible,
			Side:            domain.PricingSideBid,
		},
		OfferOrder: domain.PriceStreamOrder{
			Price:           p.Offer(),
			VisibleQuantity: visible,
			HiddenQuantity:  2 * visible,
			Side:            domain.PricingSideOffer,
		},
	}

	if err := s.store.Publish(ctx, p.Product.Ticker, domain.NewAlgoStream(stream)); err != nil {
		return fmt.Errorf("algo_streaming_service: publish %q: %w", p.Product.Ticker, err)
	}
	return nil
}

// PriceListener subscribes the service to a price source.
func (s *AlgoStreamingService) PriceListener() soa.Listener[domain.Price] {
	return soa.OnAdd(s.PublishPrice)
}

// OnMessage stores an externally built algo stream and notifies listeners.
func (s *AlgoStreamingService) OnMessage(ctx context.Context, a domain.AlgoStream) error {
	return s.store.Publish(ctx, a.PriceStream().Product.Ticker, a)
}

func (s *AlgoStreamingService) GetData(ticker string) domain.AlgoStream {
	return s.store.GetData(ticker)
}

func (s *AlgoStreamingService) AddListener(l soa.Listener[domain.AlgoStream]) {
	s.store.AddListener(l)
}

func (s *AlgoStreamingService) Listeners() []soa.Listener[domain.AlgoStream] {
	return s.store.Listeners()
}
