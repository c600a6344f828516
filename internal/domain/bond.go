package domain

import "time"

// BondIDType identifies the numbering scheme of a bond's product id.
type BondIDType string

const (
	BondIDCUSIP BondIDType = "CUSIP"
	BondIDISIN  BondIDType = "ISIN"
)

// Bond is the static product master record for a Treasury security.
type Bond struct {
	ProductID string
	IDType    BondIDType
	Ticker    string
	Coupon    float64
	Maturity  time.Time
}

// BucketedSector is a named group of tickers aggregated for risk.
type BucketedSector struct {
	Name    string
	Tickers []string
}

// Contains reports whether ticker is a member of the sector.
func (s BucketedSector) Contains(ticker string) bool {
	for _, t := range s.Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}
