package feed

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/fraction"
	"github.com/alanyoungcy/treasurydesk/internal/refdata"
)

// BookDepth is the number of levels per side on a market data record.
const BookDepth = 5

// Feed names.
const (
	FeedPrices     = "prices"
	FeedTrades     = "trades"
	FeedMarketData = "market_data"
	FeedInquiries  = "inquiries"
)

// NewPriceConnector reads "ticker,bid,offer" records.
func NewPriceConnector(sink Sink[domain.Price], obs Observer, logger *slog.Logger) *Connector[domain.Price] {
	return newConnector(FeedPrices, ParsePrice, sink, obs, logger)
}

// NewTradeConnector reads "ticker,tradeId,side,price,quantity,book" records.
func NewTradeConnector(sink Sink[domain.Trade], obs Observer, logger *slog.Logger) *Connector[domain.Trade] {
	return newConnector(FeedTrades, ParseTrade, sink, obs, logger)
}

// NewMarketDataConnector reads a ticker followed by BookDepth bid levels and
// BookDepth offer levels, each as "price,quantity".
func NewMarketDataConnector(sink Sink[domain.OrderBook], obs Observer, logger *slog.Logger) *Connector[domain.OrderBook] {
	return newConnector(FeedMarketData, ParseOrderBook, sink, obs, logger)
}

// NewInquiryConnector reads "ticker,inquiryId,side,price,quantity,state"
// records.
func NewInquiryConnector(sink Sink[domain.Inquiry], obs Observer, logger *slog.Logger) *Connector[domain.Inquiry] {
	return newConnector(FeedInquiries, ParseInquiry, sink, obs, logger)
}

// ParsePrice converts a two-way price into mid and spread.
func ParsePrice(f []string) (domain.Price, error) {
	if err := arity(f, 3); err != nil {
		return domain.Price{}, err
	}
	product, err := refdata.Bond(f[0])
	if err != nil {
		return domain.Price{}, err
	}
	bid, err := price(f[1])
	if err != nil {
		return domain.Price{}, err
	}
	offer, err := price(f[2])
	if err != nil {
		return domain.Price{}, err
	}
	if offer < bid {
		return domain.Price{}, fmt.Errorf("offer %s below bid %s: %w", f[2], f[1], domain.ErrInvalidPrice)
	}
	return domain.Price{Product: product, Mid: (bid + offer) / 2, Spread: offer - bid}, nil
}

func ParseTrade(f []string) (domain.Trade, error) {
	if err := arity(f, 6); err != nil {
		return domain.Trade{}, err
	}
	product, err := refdata.Bond(f[0])
	if err != nil {
		return domain.Trade{}, err
	}
	if f[1] == "" {
		return domain.Trade{}, fmt.Errorf("empty trade id: %w", domain.ErrMalformedRecord)
	}
	side, err := domain.ParseSide(f[2])
	if err != nil {
		return domain.Trade{}, err
	}
	px, err := price(f[3])
	if err != nil {
		return domain.Trade{}, err
	}
	qty, err := quantity(f[4])
	if err != nil {
		return domain.Trade{}, err
	}
	if f[5] == "" {
		return domain.Trade{}, fmt.Errorf("empty book: %w", domain.ErrMalformedRecord)
	}
	return domain.Trade{Product: product, TradeID: f[1], Price: px, Book: f[5], Quantity: qty, Side: side}, nil
}

func ParseOrderBook(f []string) (domain.OrderBook, error) {
	if err := arity(f, 1+4*BookDepth); err != nil {
		return domain.OrderBook{}, err
	}
	product, err := refdata.Bond(f[0])
	if err != nil {
		return domain.OrderBook{}, err
	}
	bids, err := levels(f[1:1+2*BookDepth], domain.PricingSideBid)
	if err != nil {
		return domain.OrderBook{}, err
	}
	offers, err := levels(f[1+2*BookDepth:], domain.PricingSideOffer)
	if err != nil {
		return domain.OrderBook{}, err
	}
	return domain.OrderBook{Product: product, BidStack: bids, OfferStack: offers}, nil
}

func ParseInquiry(f []string) (domain.Inquiry, error) {
	if err := arity(f, 6); err != nil {
		return domain.Inquiry{}, err
	}
	product, err := refdata.Bond(f[0])
	if err != nil {
		return domain.Inquiry{}, err
	}
	if f[1] == "" {
		return domain.Inquiry{}, fmt.Errorf("empty inquiry id: %w", domain.ErrMalformedRecord)
	}
	side, err := domain.ParseSide(f[2])
	if err != nil {
		return domain.Inquiry{}, err
	}
	px, err := price(f[3])
	if err != nil {
		return domain.Inquiry{}, err
	}
	qty, err := quantity(f[4])
	if err != nil {
		return domain.Inquiry{}, err
	}
	state, err := domain.ParseInquiryState(f[5])
	if err != nil {
		return domain.Inquiry{}, err
	}
	return domain.Inquiry{InquiryID: f[1], Product: product, Side: side, Quantity: qty, Price: px, State: state}, nil
}

func levels(f []string, side domain.PricingSide) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(f)/2)
	for i := 0; i+1 < len(f); i += 2 {
		px, err := price(f[i])
		if err != nil {
			return nil, err
		}
		qty, err := quantity(f[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Order{Price: px, Quantity: qty, Side: side})
	}
	return out, nil
}

func arity(f []string, n int) error {
	if len(f) != n {
		return fmt.Errorf("got %d fields, want %d: %w", len(f), n, domain.ErrMalformedRecord)
	}
	return nil
}

func price(s string) (float64, error) {
	v, err := fraction.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidPrice, err)
	}
	return v, nil
}

func quantity(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("quantity %q: %w", s, domain.ErrMalformedRecord)
	}
	return n, nil
}
