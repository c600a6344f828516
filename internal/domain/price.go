package domain

import (
	"fmt"

	"github.com/alanyoungcy/treasurydesk/internal/fraction"
)

// PricingSide is the side of a two-way quote or book level.
type PricingSide string

const (
	PricingSideBid   PricingSide = "BID"
	PricingSideOffer PricingSide = "OFFER"
)

// Price is an internal mid/spread price for a product.
type Price struct {
	Product Bond
	Mid     float64
	Spread  float64
}

// Bid returns mid minus half the spread.
func (p Price) Bid() float64 { return p.Mid - p.Spread/2 }

// Offer returns mid plus half the spread.
func (p Price) Offer() float64 { return p.Mid + p.Spread/2 }

func (p Price) PersistKey() string { return p.Product.Ticker }

func (p Price) String() string {
	return fmt.Sprintf("%s: mid price %s, spread %s",
		p.Product.Ticker, fraction.Format(p.Mid), fraction.Format(p.Spread))
}

// PriceStreamOrder is one side of a published two-way quote.
type PriceStreamOrder struct {
	Price           float64
	VisibleQuantity int64
	HiddenQuantity  int64
	Side            PricingSide
}

func (o PriceStreamOrder) String() string {
	label := "Bid"
	if o.Side == PricingSideOffer {
		label = "Offer"
	}
	return fmt.Sprintf("%s: %s visibleQ %d hiddenQ %d",
		label, fraction.Format(o.Price), o.VisibleQuantity, o.HiddenQuantity)
}

// PriceStream is a two-way quote for a product.
type PriceStream struct {
	Product    Bond
	BidOrder   PriceStreamOrder
	OfferOrder PriceStreamOrder
}

func (s PriceStream) PersistKey() string { return s.Product.Ticker }

func (s PriceStream) String() string {
	return fmt.Sprintf("%s %s %s", s.Product.Ticker, s.BidOrder, s.OfferOrder)
}

// AlgoStream wraps a PriceStream produced by the quoting algo.
type AlgoStream struct {
	stream PriceStream
}

// NewAlgoStream wraps stream.
func NewAlgoStream(stream PriceStream) AlgoStream {
	return AlgoStream{stream: stream}
}

// PriceStream returns the wrapped quote.
func (a AlgoStream) PriceStream() PriceStream { return a.stream }
