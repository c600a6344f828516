package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/fraction"
)

func TestAlgoStreamingAlternatesAcrossTickers(t *testing.T) {
	ctx := context.Background()
	svc := NewAlgoStreamingService(quietLogger())
	got := collect[domain.AlgoStream](svc)

	tickers := []string{"T2Y", "T2Y", "T10Y", "T30Y", "T5Y"}
	for _, tk := range tickers {
		require.NoError(t, svc.PublishPrice(ctx, domain.Price{Product: bond(t, tk), Mid: 100, Spread: 1.0 / 128}))
	}

	require.Len(t, *got, len(tickers))
	for i, a := range *got {
		ps := a.PriceStream()
		want := int64(10_000_000)
		if i%2 == 1 {
			want = 20_000_000
		}
		assert.Equal(t, want, ps.BidOrder.VisibleQuantity, "call %d", i)
		assert.Equal(t, want, ps.OfferOrder.VisibleQuantity)
		assert.Equal(t, 2*want, ps.BidOrder.HiddenQuantity)
		assert.Equal(t, 100-1.0/256, ps.BidOrder.Price)
		assert.Equal(t, 100+1.0/256, ps.OfferOrder.Price)
		assert.Equal(t, domain.PricingSideBid, ps.BidOrder.Side)
		assert.Equal(t, domain.PricingSideOffer, ps.OfferOrder.Side)
	}
	assert.Equal(t, "T5Y", svc.GetData("T5Y").PriceStream().Product.Ticker)
}

func TestStreamingUnwrapsAlgoStream(t *testing.T) {
	ctx := context.Background()
	algo := NewAlgoStreamingService(quietLogger())
	streaming := NewStreamingService(quietLogger())
	algo.AddListener(streaming.AlgoStreamListener())
	got := collect[domain.PriceStream](streaming)

	require.NoError(t, algo.PublishPrice(ctx, domain.Price{Product: bond(t, "T7Y"), Mid: 99.5, Spread: 1.0 / 64}))

	require.Len(t, *got, 1)
	assert.Equal(t, algo.GetData("T7Y").PriceStream(), (*got)[0])
	assert.Equal(t, (*got)[0], streaming.GetData("T7Y"))
}

func book(t *testing.T, ticker string, bids, offers []domain.Order) domain.OrderBook {
	return domain.OrderBook{Product: bond(t, ticker), BidStack: bids, OfferStack: offers}
}

func tightBook(t *testing.T, ticker string) domain.OrderBook {
	bid := fraction.MustParse("99-160")
	return book(t, ticker,
		[]domain.Order{
			{Price: bid - 1.0/256, Quantity: 20_000_000, Side: domain.PricingSideBid},
			{Price: bid, Quantity: 10_000_000, Side: domain.PricingSideBid},
		},
		[]domain.Order{
			{Price: bid + DefaultAggressingSpread, Quantity: 30_000_000, Side: domain.PricingSideOffer},
			{Price: bid + 1.0/64, Quantity: 40_000_000, Side: domain.PricingSideOffer},
		},
	)
}

func TestAlgoExecutionFiresOnExactSpreadAndAlternates(t *testing.T) {
	ctx := context.Background()
	svc := NewAlgoExecutionService(AlgoExecutionConfig{NewOrderID: sequentialIDs("ORD")}, quietLogger())
	got := collect[domain.AlgoExecution](svc)

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.ExecuteOnBook(ctx, tightBook(t, "T2Y")))
	}

	require.Len(t, *got, 4)
	wantSides := []domain.PricingSide{domain.PricingSideBid, domain.PricingSideOffer, domain.PricingSideBid, domain.PricingSideOffer}
	for i, a := range *got {
		o := a.ExecutionOrder()
		assert.Equal(t, wantSides[i], o.Side)
		assert.Equal(t, domain.OrderTypeMarket, o.OrderType)
		assert.Zero(t, o.HiddenQuantity)
		assert.Empty(t, o.ParentOrderID)
		assert.False(t, o.IsChildOrder)
		assert.Empty(t, o.Market)
	}
	first := (*got)[0].ExecutionOrder()
	assert.Equal(t, "ORD1", first.OrderID)
	assert.Equal(t, fraction.MustParse("99-160"), first.Price)
	assert.Equal(t, int64(10_000_000), first.VisibleQuantity)

	second := (*got)[1].ExecutionOrder()
	assert.Equal(t, fraction.MustParse("99-162"), second.Price)
	assert.Equal(t, int64(30_000_000), second.VisibleQuantity)
}

func TestAlgoExecutionIgnoresOtherSpreads(t *testing.T) {
	ctx := context.Background()
	svc := NewAlgoExecutionService(AlgoExecutionConfig{}, quietLogger())
	got := collect[domain.AlgoExecution](svc)

	wide := book(t, "T3Y",
		[]domain.Order{{Price: 99.5, Quantity: 1}},
		[]domain.Order{{Price: 99.5 + 1.0/64, Quantity: 1}},
	)
	require.NoError(t, svc.ExecuteOnBook(ctx, wide))

	oneSided := book(t, "T3Y", nil, []domain.Order{{Price: 99.5, Quantity: 1}})
	require.NoError(t, svc.ExecuteOnBook(ctx, oneSided))

	assert.Empty(t, *got)

	// A miss must not consume the side toggle.
	require.NoError(t, svc.ExecuteOnBook(ctx, tightBook(t, "T3Y")))
	require.Len(t, *got, 1)
	assert.Equal(t, domain.PricingSideBid, (*got)[0].ExecutionOrder().Side)
}

func TestExecutionStampsVenue(t *testing.T) {
	ctx := context.Background()
	exec := NewExecutionService("", quietLogger())
	assert.Equal(t, domain.MarketCME, exec.Venue())
	got := collect[domain.ExecutionOrder](exec)

	order := domain.ExecutionOrder{Product: bond(t, "T20Y"), OrderID: "X", Side: domain.PricingSideOffer}
	require.NoError(t, exec.ExecuteAlgo(ctx, domain.NewAlgoExecution(order)))
	require.NoError(t, exec.ExecuteOrder(ctx, order, domain.MarketBrokerTec))

	require.Len(t, *got, 2)
	assert.Equal(t, domain.MarketCME, (*got)[0].Market)
	assert.Equal(t, domain.MarketBrokerTec, (*got)[1].Market)
	assert.Equal(t, domain.MarketBrokerTec, exec.GetData("T20Y").Market)
}

func TestTradeBookingRoundRobinAndSideFlip(t *testing.T) {
	ctx := context.Background()
	svc := NewTradeBookingService(nil, quietLogger())
	got := collect[domain.Trade](svc)

	orders := []domain.ExecutionOrder{
		{Product: bond(t, "T2Y"), OrderID: "A", Side: domain.PricingSideBid, Price: 99, VisibleQuantity: 10, HiddenQuantity: 5},
		{Product: bond(t, "T30Y"), OrderID: "B", Side: domain.PricingSideOffer, Price: 98, VisibleQuantity: 7},
		{Product: bond(t, "T2Y"), OrderID: "C", Side: domain.PricingSideOffer, Price: 97, VisibleQuantity: 1},
		{Product: bond(t, "T5Y"), OrderID: "D", Side: domain.PricingSideBid, Price: 96, VisibleQuantity: 2},
	}
	for _, o := range orders {
		require.NoError(t, svc.BookExecution(ctx, o))
	}

	require.Len(t, *got, 4)
	assert.Equal(t, []string{"TRSY1", "TRSY2", "TRSY3", "TRSY1"},
		[]string{(*got)[0].Book, (*got)[1].Book, (*got)[2].Book, (*got)[3].Book})
	assert.Equal(t, domain.SideSell, (*got)[0].Side)
	assert.Equal(t, domain.SideBuy, (*got)[1].Side)
	assert.Equal(t, int64(15), (*got)[0].Quantity)
	assert.Equal(t, "A", (*got)[0].TradeID)
	assert.Equal(t, 99.0, svc.GetData("A").Price)
}

func TestTradeBookingDirectTradesDoNotAdvanceRotation(t *testing.T) {
	ctx := context.Background()
	svc := NewTradeBookingService([]string{"X", "Y"}, quietLogger())

	require.NoError(t, svc.OnMessage(ctx, domain.Trade{Product: bond(t, "T2Y"), TradeID: "F1", Book: "TRSY3", Quantity: 1, Side: domain.SideBuy}))
	require.NoError(t, svc.BookExecution(ctx, domain.ExecutionOrder{Product: bond(t, "T2Y"), OrderID: "E1", Side: domain.PricingSideBid}))

	assert.Equal(t, "TRSY3", svc.GetData("F1").Book)
	assert.Equal(t, "X", svc.GetData("E1").Book)
}

func TestPositionIsSignedSumOfTrades(t *testing.T) {
	ctx := context.Background()
	svc := NewPositionService(quietLogger())
	got := collect[domain.Position](svc)

	trades := []domain.Trade{
		{Product: bond(t, "T10Y"), TradeID: "1", Book: "TRSY1", Quantity: 1_000_000, Side: domain.SideBuy},
		{Product: bond(t, "T10Y"), TradeID: "2", Book: "TRSY2", Quantity: 3_000_000, Side: domain.SideSell},
		{Product: bond(t, "T10Y"), TradeID: "3", Book: "TRSY1", Quantity: 500_000, Side: domain.SideBuy},
		{Product: bond(t, "T2Y"), TradeID: "4", Book: "TRSY3", Quantity: 9, Side: domain.SideSell},
	}
	var want int64
	for _, tr := range trades {
		require.NoError(t, svc.AddTrade(ctx, tr))
		if tr.Product.Ticker == "T10Y" {
			want += tr.Side.Sign() * tr.Quantity
		}
	}

	pos := svc.GetData("T10Y")
	assert.Equal(t, want, pos.Aggregate())
	assert.Equal(t, int64(1_500_000), pos.Book("TRSY1"))
	assert.Equal(t, int64(-3_000_000), pos.Book("TRSY2"))
	assert.Equal(t, int64(-9), svc.GetData("T2Y").Aggregate())

	// Earlier notifications keep the value they were published with.
	require.Len(t, *got, 4)
	assert.Equal(t, int64(1_000_000), (*got)[0].Aggregate())
}

func TestRiskBucketsSumMembersOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewRiskService(quietLogger())
	got := collect[domain.PV01](svc)

	positions := map[string]int64{"T2Y": 1_000_000, "T3Y": -2_000_000, "T10Y": 5_000_000, "T30Y": 3_000_000}
	for _, tk := range []string{"T2Y", "T3Y", "T10Y", "T30Y"} {
		pos := domain.NewPosition(bond(t, tk))
		pos.Add("TRSY1", positions[tk])
		require.NoError(t, svc.AddPosition(ctx, pos))
	}

	front := 0.01879*1_000_000 + 0.02761*-2_000_000
	last := (*got)[1]
	assert.Equal(t, "T3Y", last.Product.Ticker)
	assert.Equal(t, "FrontEnd", last.Bucket)
	assert.InDelta(t, 0.02761*-2_000_000, last.PV01, 1e-6)
	assert.InDelta(t, front, last.BucketPV01, 1e-6)

	// The first record only saw itself in its bucket.
	assert.InDelta(t, 0.01879*1_000_000, (*got)[0].BucketPV01, 1e-6)

	belly := svc.GetBucketedRisk(domain.BucketedSector{Name: "Belly", Tickers: []string{"T5Y", "T7Y", "T10Y"}})
	assert.InDelta(t, 0.08598*5_000_000, belly.PV01, 1e-6)
	assert.Equal(t, int64(5_000_000), belly.Quantity)
	assert.Len(t, *got, 4)
}

func TestRiskUnknownTicker(t *testing.T) {
	svc := NewRiskService(quietLogger())
	pos := domain.NewPosition(domain.Bond{Ticker: "T1Y"})
	err := svc.AddPosition(context.Background(), pos)
	assert.ErrorIs(t, err, domain.ErrUnknownTicker)
}

func TestMarketDataBestBidOfferAndDepth(t *testing.T) {
	ctx := context.Background()
	svc := NewMarketDataService(quietLogger())

	_, err := svc.GetBestBidOffer("T2Y")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	b := book(t, "T2Y",
		[]domain.Order{{Price: 99, Quantity: 1}, {Price: 99.5, Quantity: 2}, {Price: 99, Quantity: 3}},
		[]domain.Order{{Price: 100, Quantity: 4}},
	)
	require.NoError(t, svc.OnMessage(ctx, b))

	bo, err := svc.GetBestBidOffer("T2Y")
	require.NoError(t, err)
	assert.Equal(t, 99.5, bo.Bid.Price)
	assert.Equal(t, 100.0, bo.Offer.Price)

	agg, err := svc.AggregateDepth("T2Y")
	require.NoError(t, err)
	assert.Equal(t, []domain.Order{{Price: 99, Quantity: 4}, {Price: 99.5, Quantity: 2}}, agg.BidStack)

	require.NoError(t, svc.OnMessage(ctx, book(t, "T3Y", nil, nil)))
	_, err = svc.GetBestBidOffer("T3Y")
	assert.ErrorIs(t, err, domain.ErrNoLiquidity)
}

func TestEndToEndExecutionReducesPosition(t *testing.T) {
	ctx := context.Background()
	md := NewMarketDataService(quietLogger())
	algo := NewAlgoExecutionService(AlgoExecutionConfig{NewOrderID: sequentialIDs("E")}, quietLogger())
	exec := NewExecutionService(domain.MarketCME, quietLogger())
	booking := NewTradeBookingService(nil, quietLogger())
	positions := NewPositionService(quietLogger())
	risk := NewRiskService(quietLogger())

	md.AddListener(algo.OrderBookListener())
	algo.AddListener(exec.AlgoExecutionListener())
	exec.AddListener(booking.ExecutionListener())
	booking.AddListener(positions.TradeListener())
	positions.AddListener(risk.PositionListener())
	executions := collect[domain.ExecutionOrder](exec)

	require.NoError(t, md.OnMessage(ctx, tightBook(t, "T5Y")))

	require.Len(t, *executions, 1)
	eo := (*executions)[0]
	assert.Equal(t, domain.PricingSideBid, eo.Side)
	assert.Equal(t, domain.MarketCME, eo.Market)

	trade := booking.GetData(eo.OrderID)
	assert.Equal(t, domain.SideSell, trade.Side)
	assert.Equal(t, "TRSY1", trade.Book)

	pos := positions.GetData("T5Y")
	assert.Equal(t, -eo.VisibleQuantity, pos.Aggregate())
	assert.Equal(t, -eo.VisibleQuantity, pos.Book("TRSY1"))
	assert.InDelta(t, 0.04526*float64(-eo.VisibleQuantity), risk.GetData("T5Y").PV01, 1e-6)
}

func TestPositionProductComesFromBondMaster(t *testing.T) {
	ctx := context.Background()
	svc := NewPositionService(quietLogger())

	require.NoError(t, svc.AddTrade(ctx, domain.Trade{
		Product: domain.Bond{Ticker: "T5Y"}, TradeID: "P1", Book: "TRSY1", Quantity: 10, Side: domain.SideBuy,
	}))
	assert.Equal(t, bond(t, "T5Y"), svc.GetData("T5Y").Product)

	// Tickers outside the bond master keep the trade's product.
	odd := domain.Bond{ProductID: "X1", Ticker: "T1M"}
	require.NoError(t, svc.AddTrade(ctx, domain.Trade{
		Product: odd, TradeID: "P2", Book: "TRSY1", Quantity: 10, Side: domain.SideSell,
	}))
	assert.Equal(t, odd, svc.GetData("T1M").Product)
}
