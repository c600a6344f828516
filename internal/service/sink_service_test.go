package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestHistoricalPersistsInCallOrder(t *testing.T) {
	ctx := context.Background()
	sink := &memSink{}
	clock := &fakeClock{t: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := NewHistoricalDataService[domain.Position]("positions", sink, clock.now, quietLogger())
	assert.Equal(t, "positions", svc.Stream())

	p1 := domain.NewPosition(bond(t, "T2Y"))
	p1.Add("TRSY1", 5)
	p2 := domain.NewPosition(bond(t, "T3Y"))
	p2.Add("TRSY2", -7)

	l := svc.Listener()
	require.NoError(t, l.OnEvent(ctx, "add", p1))
	require.NoError(t, l.OnEvent(ctx, "add", p2))

	assert.Equal(t, []string{"T2Y, TRSY1: 5, Total : 5", "T3Y, TRSY2: -7, Total : -7"}, sink.lines())
	assert.Equal(t, "positions", sink.recs[0].Stream)
	assert.Equal(t, "T3Y", sink.recs[1].Key)
	assert.Equal(t, clock.t, sink.recs[0].Timestamp)
	assert.Equal(t, int64(-7), svc.GetData("T3Y").Aggregate())
}

func TestHistoricalPropagatesSinkError(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewHistoricalDataService[domain.Inquiry]("inquiries", &memSink{err: boom}, nil, quietLogger())
	err := svc.OnMessage(context.Background(), domain.Inquiry{InquiryID: "Q"})
	assert.ErrorIs(t, err, boom)
}

func TestGUIThrottleAndCap(t *testing.T) {
	ctx := context.Background()
	sink := &memSink{}
	clock := &fakeClock{t: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := NewGUIService(GUIConfig{Throttle: 300 * time.Millisecond, MaxUpdates: 3, Now: clock.now}, sink, quietLogger())
	price := domain.Price{Product: bond(t, "T2Y"), Mid: 100, Spread: 1.0 / 128}

	require.NoError(t, svc.OnMessage(ctx, price)) // accepted
	clock.advance(100 * time.Millisecond)
	require.NoError(t, svc.OnMessage(ctx, price)) // throttled
	clock.advance(200 * time.Millisecond)
	require.NoError(t, svc.OnMessage(ctx, price)) // accepted, exactly one interval later
	clock.advance(time.Second)
	require.NoError(t, svc.OnMessage(ctx, price)) // accepted
	clock.advance(time.Second)
	require.NoError(t, svc.OnMessage(ctx, price)) // capped

	assert.Equal(t, 3, svc.Accepted())
	require.Len(t, sink.recs, 3)
	assert.Equal(t, "gui", sink.recs[0].Stream)
	assert.Equal(t, "T2Y: mid price 100-000, spread 0-002", sink.recs[0].Line)
	assert.Equal(t, price, svc.GetData("T2Y"))
}

func TestGUIDefaults(t *testing.T) {
	svc := NewGUIService(GUIConfig{}, &memSink{}, quietLogger())
	assert.Equal(t, 300*time.Millisecond, svc.cfg.Throttle)
	assert.Equal(t, 100, svc.cfg.MaxUpdates)
	assert.Equal(t, "gui", svc.cfg.Stream)
}

func TestGUIThrottleHoldsUnderBursts(t *testing.T) {
	ctx := context.Background()
	sink := &memSink{}
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := &fakeClock{t: start}
	svc := NewGUIService(GUIConfig{Throttle: 300 * time.Millisecond, Now: clock.now}, sink, quietLogger())
	price := domain.Price{Product: bond(t, "T2Y"), Mid: 100, Spread: 1.0 / 128}

	offsets := []int{0, 100, 299, 300, 301, 650, 900, 1000, 1000, 5000, 5001}
	for _, ms := range offsets {
		clock.t = start.Add(time.Duration(ms) * time.Millisecond)
		require.NoError(t, svc.OnMessage(ctx, price))
	}

	var got []int64
	for _, rec := range sink.recs {
		got = append(got, rec.Timestamp.Sub(start).Milliseconds())
	}
	assert.Equal(t, []int64{0, 300, 650, 1000, 5000}, got)
	assert.Equal(t, 5, svc.Accepted())
}
