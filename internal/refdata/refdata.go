// Package refdata holds the static product master for the on-the-run US
// Treasury curve: bond details, unit PV01 and risk bucket membership.
package refdata

import (
	"fmt"
	"time"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
)

// Bucket names.
const (
	BucketFrontEnd = "FrontEnd"
	BucketBelly    = "Belly"
	BucketLongEnd  = "LongEnd"
)

type entry struct {
	bond   domain.Bond
	pv01   float64
	bucket string
}

func cusip(id, ticker string, coupon float64, y int, m time.Month, d int) domain.Bond {
	return domain.Bond{
		ProductID: id,
		IDType:    domain.BondIDCUSIP,
		Ticker:    ticker,
		Coupon:    coupon,
		Maturity:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

// tickers lists the curve from short to long.
var tickers = []string{"T2Y", "T3Y", "T5Y", "T7Y", "T10Y", "T20Y", "T30Y"}

var table = map[string]entry{
	"T2Y":  {cusip("91282CFX4", "T2Y", 0.045, 2024, time.November, 30), 0.01879, BucketFrontEnd},
	"T3Y":  {cusip("91282CFW6", "T3Y", 0.045, 2025, time.November, 15), 0.02761, BucketFrontEnd},
	"T5Y":  {cusip("91282CFZ9", "T5Y", 0.03875, 2027, time.November, 30), 0.04526, BucketBelly},
	"T7Y":  {cusip("91282CFY2", "T7Y", 0.03875, 2029, time.November, 30), 0.06170, BucketBelly},
	"T10Y": {cusip("91282CFV8", "T10Y", 0.04125, 2032, time.November, 15), 0.08598, BucketBelly},
	"T20Y": {cusip("912810TM0", "T20Y", 0.04, 2042, time.November, 15), 0.14420, BucketLongEnd},
	"T30Y": {cusip("912810TL2", "T30Y", 0.04, 2052, time.November, 15), 0.19917, BucketLongEnd},
}

var sectors = []domain.BucketedSector{
	{Name: BucketFrontEnd, Tickers: []string{"T2Y", "T3Y"}},
	{Name: BucketBelly, Tickers: []string{"T5Y", "T7Y", "T10Y"}},
	{Name: BucketLongEnd, Tickers: []string{"T20Y", "T30Y"}},
}

func lookup(ticker string) (entry, error) {
	e, ok := table[ticker]
	if !ok {
		return entry{}, fmt.Errorf("refdata: %q: %w", ticker, domain.ErrUnknownTicker)
	}
	return e, nil
}

// Bond returns the product master record for ticker.
func Bond(ticker string) (domain.Bond, error) {
	e, err := lookup(ticker)
	return e.bond, err
}

// BondByProductID finds a bond by its CUSIP.
func BondByProductID(id string) (domain.Bond, error) {
	for _, e := range table {
		if e.bond.ProductID == id {
			return e.bond, nil
		}
	}
	return domain.Bond{}, fmt.Errorf("refdata: product id %q: %w", id, domain.ErrUnknownTicker)
}

// PV01 returns the price value of one basis point for a unit position.
func PV01(ticker string) (float64, error) {
	e, err := lookup(ticker)
	return e.pv01, err
}

// Bucket returns the risk sector that ticker belongs to.
func Bucket(ticker string) (domain.BucketedSector, error) {
	e, err := lookup(ticker)
	if err != nil {
		return domain.BucketedSector{}, err
	}
	for _, s := range sectors {
		if s.Name == e.bucket {
			return clone(s), nil
		}
	}
	return domain.BucketedSector{}, fmt.Errorf("refdata: bucket %q for %q: %w", e.bucket, ticker, domain.ErrNotFound)
}

// Sectors returns every risk bucket, front end first.
func Sectors() []domain.BucketedSector {
	out := make([]domain.BucketedSector, len(sectors))
	for i, s := range sectors {
		out[i] = clone(s)
	}
	return out
}

// Tickers returns all known tickers from short to long maturity.
func Tickers() []string {
	return append([]string(nil), tickers...)
}

func clone(s domain.BucketedSector) domain.BucketedSector {
	return domain.BucketedSector{Name: s.Name, Tickers: append([]string(nil), s.Tickers...)}
}
