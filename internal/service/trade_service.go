package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// DefaultBooks are the trading books executions are allocated to.
var DefaultBooks = []string{"TRSY1", "TRSY2", "TRSY3"}

// TradeBookingService books trades, both from the trade feed and from
// executions. Executions are booked on the opposite side to the one hit and
// allocated to books in strict rotation.
type TradeBookingService struct {
	store  *soa.Store[domain.Trade]
	books  []string
	logger *slog.Logger

	mu     sync.Mutex
	booked int
}

// NewTradeBookingService creates a TradeBookingService rotating through books.
// An empty list means DefaultBooks.
func NewTradeBookingService(books []string, logger *slog.Logger, opts ...soa.Option) *TradeBookingService {
	if len(books) == 0 {
		books = DefaultBooks
	}
	return &TradeBookingService{
		store:  soa.NewStore[domain.Trade]("trade_booking", logger, opts...),
		books:  append([]string(nil), books...),
		logger: logger,
	}
}

// BookTrade stores t under its trade id and notifies listeners.
func (s *TradeBookingService) BookTrade(ctx context.Context, t domain.Trade) error {
	if err := s.store.Publish(ctx, t.TradeID, t); err != nil {
		return fmt.Errorf("trade_booking_service: book %q: %w", t.TradeID, err)
	}
	return nil
}

// BookExecution turns an execution into a trade and books it.
func (s *TradeBookingService) BookExecution(ctx context.Context, order domain.ExecutionOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	side := domain.SideBuy
	if order.Side == domain.PricingSideBid {
		side = domain.SideSell
	}
	book := s.books[s.booked%len(s.books)]
	s.booked++

	return s.BookTrade(ctx, domain.Trade{
		Product:  order.Product,
		TradeID:  order.OrderID,
		Price:    order.Price,
		Book:     book,
		Quantity: order.Quantity(),
		Side:     side,
	})
}

// ExecutionListener subscribes the service to an execution source.
func (s *TradeBookingService) ExecutionListener() soa.Listener[domain.ExecutionOrder] {
	return soa.OnAdd(s.BookExecution)
}

// OnMessage is BookTrade.
func (s *TradeBookingService) OnMessage(ctx context.Context, t domain.Trade) error {
	return s.BookTrade(ctx, t)
}

func (s *TradeBookingService) GetData(tradeID string) domain.Trade { return s.store.GetData(tradeID) }

func (s *TradeBookingService) AddListener(l soa.Listener[domain.Trade]) { s.store.AddListener(l) }

func (s *TradeBookingService) Listeners() []soa.Listener[domain.Trade] { return s.store.Listeners() }
