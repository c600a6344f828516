package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
	"github.com/alanyoungcy/treasurydesk/internal/refdata"
	"github.com/alanyoungcy/treasurydesk/internal/soa"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bond(t *testing.T, ticker string) domain.Bond {
	t.Helper()
	b, err := refdata.Bond(ticker)
	require.NoError(t, err)
	return b
}

// memSink is an in-memory HistoricalStore.
type memSink struct {
	mu   sync.Mutex
	recs []domain.HistoricalRecord
	err  error
}

func (m *memSink) Append(_ context.Context, rec domain.HistoricalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memSink) Close() error { return nil }

func (m *memSink) lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.recs))
	for i, r := range m.recs {
		out[i] = r.Line
	}
	return out
}

// collect subscribes to svc and returns a pointer to the received values.
func collect[V any](svc interface{ AddListener(soa.Listener[V]) }) *[]V {
	var got []V
	svc.AddListener(soa.OnAdd(func(_ context.Context, v V) error {
		got = append(got, v)
		return nil
	}))
	return &got
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}
