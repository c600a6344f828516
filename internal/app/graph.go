package app

import (
	"log/slog"
	"time"

	"github.com/alanyoungcy/treasurydesk/internal/config"
	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/service"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

// Desk holds every service of the trading desk, already connected.
type Desk struct {
	Pricing       *service.PricingService
	AlgoStreaming *service.AlgoStreamingService
	Streaming     *service.StreamingService
	MarketData    *service.MarketDataService
	AlgoExecution *service.AlgoExecutionService
	Execution     *service.ExecutionService
	TradeBooking  *service.TradeBookingService
	Position      *service.PositionService
	Risk          *service.RiskService
	Inquiry       *service.InquiryService
	GUI           *service.GUIService

	StreamingHistory *service.HistoricalDataService[domain.PriceStream]
	ExecutionHistory *service.HistoricalDataService[domain.ExecutionOrder]
	PositionHistory  *service.HistoricalDataService[domain.Position]
	RiskHistory      *service.HistoricalDataService[domain.PV01]
	InquiryHistory   *service.HistoricalDataService[domain.Inquiry]
}

// NewDesk builds the services and registers listeners in the order the
// downstream records must be written:
//
//	pricing -> algo streaming -> streaming -> history
//	pricing -> gui
//	market data -> algo execution -> execution -> history
//	                                           -> trade booking -> position -> history
//	                                                                        -> risk -> history
//	inquiry -> history
func NewDesk(cfg *config.Config, deps *Dependencies, now func() time.Time, logger *slog.Logger) *Desk {
	if now == nil {
		now = time.Now
	}
	obs := soa.WithObserver(deps.Metrics)
	sink := deps.Sink

	d := &Desk{
		Pricing:       service.NewPricingService(logger, obs),
		AlgoStreaming: service.NewAlgoStreamingService(logger, obs),
		Streaming:     service.NewStreamingService(logger, obs),
		MarketData:    service.NewMarketDataService(logger, obs),
		AlgoExecution: service.NewAlgoExecutionService(service.AlgoExecutionConfig{
			Spread: cfg.Desk.AggressingSpread,
		}, logger, obs),
		Execution:    service.NewExecutionService(domain.Market(cfg.Desk.Venue), logger, obs),
		TradeBooking: service.NewTradeBookingService(cfg.Desk.Books, logger, obs),
		Position:     service.NewPositionService(logger, obs),
		Risk:         service.NewRiskService(logger, obs),
		Inquiry:      service.NewInquiryService(cfg.Desk.InquiryQuotePrice, logger, obs),
		GUI: service.NewGUIService(service.GUIConfig{
			Stream:     StreamGUI,
			Throttle:   cfg.GUI.Throttle.Duration,
			MaxUpdates: cfg.GUI.MaxUpdates,
			Now:        now,
		}, sink, logger, obs),

		StreamingHistory: service.NewHistoricalDataService[domain.PriceStream](StreamStreaming, sink, now, logger, obs),
		ExecutionHistory: service.NewHistoricalDataService[domain.ExecutionOrder](StreamExecutions, sink, now, logger, obs),
		PositionHistory:  service.NewHistoricalDataService[domain.Position](StreamPositions, sink, now, logger, obs),
		RiskHistory:      service.NewHistoricalDataService[domain.PV01](StreamRisk, sink, now, logger, obs),
		InquiryHistory:   service.NewHistoricalDataService[domain.Inquiry](StreamInquiries, sink, now, logger, obs),
	}

	d.Pricing.AddListener(d.AlgoStreaming.PriceListener())
	d.Pricing.AddListener(d.GUI.PriceListener())
	d.AlgoStreaming.AddListener(d.Streaming.AlgoStreamListener())
	d.Streaming.AddListener(d.StreamingHistory.Listener())

	d.MarketData.AddListener(d.AlgoExecution.OrderBookListener())
	d.AlgoExecution.AddListener(d.Execution.AlgoExecutionListener())
	d.Execution.AddListener(d.ExecutionHistory.Listener())
	d.Execution.AddListener(d.TradeBooking.ExecutionListener())
	d.TradeBooking.AddListener(d.Position.TradeListener())
	d.Position.AddListener(d.PositionHistory.Listener())
	d.Position.AddListener(d.Risk.PositionListener())
	d.Risk.AddListener(d.RiskHistory.Listener())

	d.Inquiry.AddListener(d.InquiryHistory.Listener())

	return d
}
