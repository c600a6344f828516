package domain

import (
	"context"
	"fmt"
	"time"
)

// Record is a value that can be persisted by a historical sink.
type Record interface {
	// PersistKey identifies the record within its stream (ticker, trade id,
	// inquiry id).
	PersistKey() string
	String() string
}

// HistoricalRecord is one persisted line of a named stream.
type HistoricalRecord struct {
	Stream    string
	Key       string
	Line      string
	Timestamp time.Time
}

// Formatted renders the record as "timestamp, line".
func (r HistoricalRecord) Formatted() string {
	return FormatTimestamp(r.Timestamp) + ", " + r.Line
}

// HistoricalStore appends records to durable storage.
type HistoricalStore interface {
	Append(ctx context.Context, rec HistoricalRecord) error
	Close() error
}

// FormatTimestamp renders t as "YYYY-MM-DD HH:MM:SS:mmm".
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s:%03d", t.Format("2006-01-02 15:04:05"), t.Nanosecond()/int(time.Millisecond))
}
