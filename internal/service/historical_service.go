package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// HistoricalDataService persists every record it receives to a named stream
// and remembers the latest one per persist key.
type HistoricalDataService[V domain.Record] struct {
	stream string
	store  *soa.Store[V]
	sink   domain.HistoricalStore
	now    func() time.Time
	logger *slog.Logger
}

// NewHistoricalDataService creates a service appending to sink under stream.
// now defaults to time.Now.
func NewHistoricalDataService[V domain.Record](
	stream string,
	sink domain.HistoricalStore,
	now func() time.Time,
	logger *slog.Logger,
	opts ...soa.Option,
) *HistoricalDataService[V] {
	if now == nil {
		now = time.Now
	}
	return &HistoricalDataService[V]{
		stream: stream,
		store:  soa.NewStore[V]("historical_"+stream, logger, opts...),
		sink:   sink,
		now:    now,
		logger: logger,
	}
}

// Stream returns the stream name records are written under.
func (s *HistoricalDataService[V]) Stream() string { return s.stream }

// PersistData records v under key and appends it to the sink.
func (s *HistoricalDataService[V]) PersistData(ctx context.Context, key string, v V) error {
	s.store.Put(key, v)
	rec := domain.HistoricalRecord{
		Stream:    s.stream,
		Key:       key,
		Line:      v.String(),
		Timestamp: s.now(),
	}
	if err := s.sink.Append(ctx, rec); err != nil {
		return fmt.Errorf("historical_service: append %s/%s: %w", s.stream, key, err)
	}
	return nil
}

// Listener returns a listener persisting every added value.
func (s *HistoricalDataService[V]) Listener() soa.Listener[V] {
	return soa.OnAdd(s.OnMessage)
}

// OnMessage persists v under its own persist key.
func (s *HistoricalDataService[V]) OnMessage(ctx context.Context, v V) error {
	return s.PersistData(ctx, v.PersistKey(), v)
}

func (s *HistoricalDataService[V]) GetData(key string) V { return s.store.GetData(key) }

// AddListener is accepted for contract completeness. The service never
// notifies.
func (s *HistoricalDataService[V]) AddListener(l soa.Listener[V]) { s.store.AddListener(l) }

func (s *HistoricalDataService[V]) Listeners() []soa.Listener[V] { return s.store.Listeners() }
