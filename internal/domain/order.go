package domain

import (
	"fmt"

	"github.com/alanyoungcy/treasurydesk/internal/fraction"
)

// OrderType is the execution instruction of an order.
type OrderType string

const (
	OrderTypeFOK    OrderType = "FOK"
	OrderTypeIOC    OrderType = "IOC"
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeStop   OrderType = "STOP"
)

// Market is an execution venue.
type Market string

const (
	MarketBrokerTec Market = "BROKERTEC"
	MarketESpeed    Market = "ESPEED"
	MarketCME       Market = "CME"
)

// ParseMarket maps a venue name to a Market.
func ParseMarket(s string) (Market, error) {
	switch m := Market(s); m {
	case MarketBrokerTec, MarketESpeed, MarketCME:
		return m, nil
	}
	return "", fmt.Errorf("unknown market %q", s)
}

// ExecutionOrder is an order sent to a venue. Market stays empty until the
// order reaches the execution stage.
type ExecutionOrder struct {
	Product         Bond
	Side            PricingSide
	OrderID         string
	OrderType       OrderType
	Price           float64
	VisibleQuantity int64
	HiddenQuantity  int64
	ParentOrderID   string
	IsChildOrder    bool
	Market          Market
}

// Quantity is visible plus hidden quantity.
func (o ExecutionOrder) Quantity() int64 {
	return o.VisibleQuantity + o.HiddenQuantity
}

func (o ExecutionOrder) PersistKey() string { return o.Product.Ticker }

func (o ExecutionOrder) String() string {
	parent := o.ParentOrderID
	if parent == "" {
		parent = "none"
	}
	child := "NotChildOrder"
	if o.IsChildOrder {
		child = "ChildOrder"
	}
	return fmt.Sprintf("%s %s %s %s %s %s %d %d %s %s",
		o.Product.Ticker, o.OrderID, o.Market, o.Side, o.OrderType,
		fraction.Format(o.Price), o.VisibleQuantity, o.HiddenQuantity, parent, child)
}

// AlgoExecution wraps an ExecutionOrder generated by the execution algo.
// The order is fixed at construction.
type AlgoExecution struct {
	order ExecutionOrder
}

// NewAlgoExecution wraps order.
func NewAlgoExecution(order ExecutionOrder) AlgoExecution {
	return AlgoExecution{order: order}
}

// ExecutionOrder returns a copy of the wrapped order.
func (a AlgoExecution) ExecutionOrder() ExecutionOrder { return a.order }
