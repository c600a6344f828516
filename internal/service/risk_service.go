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

// RiskService converts positions into PV01 and aggregates it per bucket.
type RiskService struct {
	store  *soa.Store[domain.PV01]
	logger *slog.Logger

	mu sync.Mutex
}

// NewRiskService creates an empty RiskService.
func NewRiskService(logger *slog.Logger, opts ...soa.Option) *RiskService {
	return &RiskService{
		store:  soa.NewStore[domain.PV01]("risk", logger, opts...),
		logger: logger,
	}
}

// AddPosition recomputes the PV01 of pos's ticker and of its bucket, then
// publishes the ticker record.
func (s *RiskService) AddPosition(ctx context.Context, pos domain.Position) error {
	ticker := pos.Product.Ticker

	unit, err := refdata.PV01(ticker)
	if err != nil {
		return fmt.Errorf("risk_service: pv01 for %q: %w", ticker, err)
	}
	bucket, err := refdata.Bucket(ticker)
	if err != nil {
		return fmt.Errorf("risk_service: bucket for %q: %w", ticker, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	qty := pos.Aggregate()
	rec := domain.PV01{
		Product:  pos.Product,
		PV01:     unit * float64(qty),
		Quantity: qty,
		Bucket:   bucket.Name,
	}
	s.store.Put(ticker, rec)
	rec.BucketPV01 = s.sum(bucket.Tickers)

	if err := s.store.Publish(ctx, ticker, rec); err != nil {
		return fmt.Errorf("risk_service: publish %q: %w", ticker, err)
	}
	return nil
}

// PositionListener subscribes the service to a position source.
func (s *RiskService) PositionListener() soa.Listener[domain.Position] {
	return soa.OnAdd(s.AddPosition)
}

// GetBucketedRisk sums the stored PV01 and quantity over sector's tickers.
// Tickers without a position contribute zero.
func (s *RiskService) GetBucketedRisk(sector domain.BucketedSector) domain.SectorRisk {
	out := domain.SectorRisk{Sector: sector}
	for _, t := range sector.Tickers {
		r := s.store.GetData(t)
		out.PV01 += r.PV01
		out.Quantity += r.Quantity
	}
	return out
}

func (s *RiskService) sum(tickers []string) float64 {
	var total float64
	for _, t := range tickers {
		total += s.store.GetData(t).PV01
	}
	return total
}

// OnMessage stores an externally computed PV01 record and notifies listeners.
func (s *RiskService) OnMessage(ctx context.Context, rec domain.PV01) error {
	return s.store.Publish(ctx, rec.Product.Ticker, rec)
}

func (s *RiskService) GetData(ticker string) domain.PV01 { return s.store.GetData(ticker) }

func (s *RiskService) AddListener(l soa.Listener[domain.PV01]) { s.store.AddListener(l) }

func (s *RiskService) Listeners() []soa.Listener[domain.PV01] { return s.store.Listeners() }
