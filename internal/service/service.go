// Package service implements the desk services. Each one owns a keyed store
// and exposes listener adapters for the upstream services it consumes.
package service

import (
	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

var (
	_ soa.Service[domain.Price]          = (*PricingService)(nil)
	_ soa.Service[domain.AlgoStream]     = (*AlgoStreamingService)(nil)
	_ soa.Service[domain.PriceStream]    = (*StreamingService)(nil)
	_ soa.Service[domain.OrderBook]      = (*MarketDataService)(nil)
	_ soa.Service[domain.AlgoExecution]  = (*AlgoExecutionService)(nil)
	_ soa.Service[domain.ExecutionOrder] = (*ExecutionService)(nil)
	_ soa.Service[domain.Trade]          = (*TradeBookingService)(nil)
	_ soa.Service[domain.Position]       = (*PositionService)(nil)
	_ soa.Service[domain.PV01]           = (*RiskService)(nil)
	_ soa.Service[domain.Inquiry]        = (*InquiryService)(nil)
	_ soa.Service[domain.Inquiry]        = (*HistoricalDataService[domain.Inquiry])(nil)
	_ soa.Service[domain.Price]          = (*GUIService)(nil)
)
