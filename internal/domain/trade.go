package domain

import (
	"fmt"
	"strings"

	"github.com/alanyoungcy/treasurydesk/internal/fraction"
)

// Side is the direction of a trade or inquiry.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide accepts "BUY"/"SELL" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return SideBuy, nil
	case "SELL":
		return SideSell, nil
	}
	return "", fmt.Errorf("side %q: %w", s, ErrMalformedRecord)
}

// Sign is +1 for BUY and -1 for SELL.
func (s Side) Sign() int64 {
	if s == SideSell {
		return -1
	}
	return 1
}

// Trade is a booked trade.
type Trade struct {
	Product  Bond
	TradeID  string
	Price    float64
	Book     string
	Quantity int64
	Side     Side
}

func (t Trade) PersistKey() string { return t.TradeID }

func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s %s %d %s",
		t.Product.Ticker, t.TradeID, t.Side, fraction.Format(t.Price), t.Quantity, t.Book)
}
