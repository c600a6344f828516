package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// DefaultQuotePrice is the price quoted back on every received inquiry.
const DefaultQuotePrice = 100.0

// InquiryService runs the customer inquiry lifecycle:
//
//	RECEIVED -> QUOTED -> DONE
//	any      -> REJECTED | CUSTOMER_REJECTED
//
// The transition taken on ingestion depends on the state carried by the
// incoming inquiry, not on what was stored for its id before.
//
// The service lock is held while listeners run, so a listener must not call
// back into the same InquiryService.
type InquiryService struct {
	store      *soa.Store[domain.Inquiry]
	quotePrice float64
	logger     *slog.Logger

	mu sync.Mutex
}

// NewInquiryService creates an InquiryService that quotes at quotePrice
// (DefaultQuotePrice when zero).
func NewInquiryService(quotePrice float64, logger *slog.Logger, opts ...soa.Option) *InquiryService {
	if quotePrice == 0 {
		quotePrice = DefaultQuotePrice
	}
	return &InquiryService{
		store:      soa.NewStore[domain.Inquiry]("inquiry", logger, opts...),
		quotePrice: quotePrice,
		logger:     logger.With(slog.String("component", "inquiry")),
	}
}

// OnMessage stores inq by id and advances it according to its state. A
// received inquiry is quoted and completed; a quoted one is completed.
// Completion notifies listeners. Other states are stored only.
func (s *InquiryService) OnMessage(ctx context.Context, inq domain.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Put(inq.InquiryID, inq)

	switch inq.State {
	case domain.InquiryReceived:
		return s.quote(ctx, inq, s.quotePrice)
	case domain.InquiryQuoted:
		return s.complete(ctx, inq)
	default:
		s.logger.DebugContext(ctx, "inquiry stored without transition",
			slog.String("inquiry_id", inq.InquiryID),
			slog.String("state", string(inq.State)),
		)
		return nil
	}
}

// SendQuote quotes an open inquiry at price and completes it.
func (s *InquiryService) SendQuote(ctx context.Context, inquiryID string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inq, ok := s.store.Lookup(inquiryID)
	if !ok {
		return fmt.Errorf("inquiry_service: quote %q: %w", inquiryID, domain.ErrNotFound)
	}
	if inq.State.Terminal() {
		return fmt.Errorf("inquiry_service: quote %q in state %s: %w", inquiryID, inq.State, domain.ErrInvalidTransition)
	}
	return s.quote(ctx, inq, price)
}

// RejectInquiry marks an inquiry REJECTED. Listeners are not notified.
func (s *InquiryService) RejectInquiry(inquiryID string) error {
	return s.forceState(inquiryID, domain.InquiryRejected)
}

// CustomerRejectInquiry marks an inquiry CUSTOMER_REJECTED. Listeners are not
// notified.
func (s *InquiryService) CustomerRejectInquiry(inquiryID string) error {
	return s.forceState(inquiryID, domain.InquiryCustomerRejected)
}

func (s *InquiryService) forceState(inquiryID string, state domain.InquiryState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inq, ok := s.store.Lookup(inquiryID)
	if !ok {
		return fmt.Errorf("inquiry_service: set %s on %q: %w", state, inquiryID, domain.ErrNotFound)
	}
	inq.State = state
	s.store.Put(inquiryID, inq)
	return nil
}

// quote and complete must be called with s.mu held.
func (s *InquiryService) quote(ctx context.Context, inq domain.Inquiry, price float64) error {
	inq.Price = price
	inq.State = domain.InquiryQuoted
	s.store.Put(inq.InquiryID, inq)
	return s.complete(ctx, inq)
}

func (s *InquiryService) complete(ctx context.Context, inq domain.Inquiry) error {
	inq.State = domain.InquiryDone
	if err := s.store.Publish(ctx, inq.InquiryID, inq); err != nil {
		return fmt.Errorf("inquiry_service: publish %q: %w", inq.InquiryID, err)
	}
	return nil
}

func (s *InquiryService) GetData(inquiryID string) domain.Inquiry { return s.store.GetData(inquiryID) }

func (s *InquiryService) AddListener(l soa.Listener[domain.Inquiry]) { s.store.AddListener(l) }

func (s *InquiryService) Listeners() []soa.Listener[domain.Inquiry] { return s.store.Listeners() }
