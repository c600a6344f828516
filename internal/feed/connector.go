// Package feed reads the desk's delimited text feeds and pushes each record
// into the service that owns it.
package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Record outcomes reported to an Observer.
const (
	ResultAccepted = "accepted"
	ResultSkipped  = "skipped"
	ResultFailed   = "failed"
)

// Sink ingests parsed values. Every desk service satisfies it.
type Sink[V any] interface {
	OnMessage(ctx context.Context, v V) error
}

// Observer is told the outcome of every record.
type Observer interface {
	Record(feed, result string)
}

type nopObserver struct{}

func (nopObserver) Record(string, string) {}

// Stats summarises one pass over a feed.
type Stats struct {
	Accepted int
	Skipped  int
	// Failed counts records that parsed but whose downstream cascade
	// reported an error.
	Failed int
}

// Connector parses one feed and delivers its records in order.
type Connector[V any] struct {
	name     string
	parse    func(fields []string) (V, error)
	sink     Sink[V]
	observer Observer
	logger   *slog.Logger
}

func newConnector[V any](name string, parse func([]string) (V, error), sink Sink[V], obs Observer, logger *slog.Logger) *Connector[V] {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Connector[V]{
		name:     name,
		parse:    parse,
		sink:     sink,
		observer: obs,
		logger:   logger.With(slog.String("component", "feed"), slog.String("feed", name)),
	}
}

// Name returns the feed name.
func (c *Connector[V]) Name() string { return c.name }

// Consume reads r to the end. Malformed records are logged and skipped;
// downstream failures are logged and counted. Only read errors and context
// cancellation stop the pass.
func (c *Connector[V]) Consume(ctx context.Context, r io.Reader) (Stats, error) {
	var stats Stats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.ReuseRecord = true

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			c.skip(ctx, &stats, perr.Line, err)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("feed %s: read: %w", c.name, err)
		}

		line, _ := cr.FieldPos(0)
		v, err := c.parse(trim(fields))
		if err != nil {
			c.skip(ctx, &stats, line, err)
			continue
		}

		if err := c.sink.OnMessage(ctx, v); err != nil {
			stats.Failed++
			c.observer.Record(c.name, ResultFailed)
			c.logger.ErrorContext(ctx, "record processing failed",
				slog.Int("line", line),
				slog.String("error", err.Error()),
			)
			continue
		}
		stats.Accepted++
		c.observer.Record(c.name, ResultAccepted)
	}

	c.logger.InfoContext(ctx, "feed consumed",
		slog.Int("accepted", stats.Accepted),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (c *Connector[V]) skip(ctx context.Context, stats *Stats, line int, err error) {
	stats.Skipped++
	c.observer.Record(c.name, ResultSkipped)
	c.logger.WarnContext(ctx, "skipping malformed record",
		slog.Int("line", line),
		slog.String("error", err.Error()),
	)
}

func trim(fields []string) []string {
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
