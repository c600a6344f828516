package domain

import "fmt"

// Order is a single level of an order book.
type Order struct {
	Price    float64
	Quantity int64
	Side     PricingSide
}

// BidOffer pairs the best bid and best offer of a book.
type BidOffer struct {
	Bid   Order
	Offer Order
}

// Spread returns offer price minus bid price.
func (b BidOffer) Spread() float64 {
	return b.Offer.Price - b.Bid.Price
}

// OrderBook is a depth snapshot for one product.
type OrderBook struct {
	Product    Bond
	BidStack   []Order
	OfferStack []Order
}

func (b OrderBook) PersistKey() string { return b.Product.Ticker }

// BestBidOffer scans both stacks for the highest bid and the lowest offer.
// On equal prices the first level seen wins. An empty side yields
// ErrNoLiquidity.
func (b OrderBook) BestBidOffer() (BidOffer, error) {
	if len(b.BidStack) == 0 {
		return BidOffer{}, fmt.Errorf("%s bid side: %w", b.Product.Ticker, ErrNoLiquidity)
	}
	if len(b.OfferStack) == 0 {
		return BidOffer{}, fmt.Errorf("%s offer side: %w", b.Product.Ticker, ErrNoLiquidity)
	}

	best := BidOffer{Bid: b.BidStack[0], Offer: b.OfferStack[0]}
	for _, o := range b.BidStack[1:] {
		if o.Price > best.Bid.Price {
			best.Bid = o
		}
	}
	for _, o := range b.OfferStack[1:] {
		if o.Price < best.Offer.Price {
			best.Offer = o
		}
	}
	return best, nil
}

// Aggregated returns a copy of the book where levels sharing a price are
// merged into one, summing their quantities. Level order follows the first
// appearance of each price.
func (b OrderBook) Aggregated() OrderBook {
	return OrderBook{
		Product:    b.Product,
		BidStack:   aggregateLevels(b.BidStack),
		OfferStack: aggregateLevels(b.OfferStack),
	}
}

func aggregateLevels(levels []Order) []Order {
	out := make([]Order, 0, len(levels))
	index := make(map[float64]int, len(levels))
	for _, o := range levels {
		if i, ok := index[o.Price]; ok {
			out[i].Quantity += o.Quantity
			continue
		}
		index[o.Price] = len(out)
		out = append(out, o)
	}
	return out
}
