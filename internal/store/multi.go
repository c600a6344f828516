// Package store fans historical records out to every configured backend.
package store

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
)

// Multi writes each record to every wrapped store in order. A failing store
// does not stop the others.
type Multi []domain.HistoricalStore

// Append writes rec to every store and joins the failures.
func (m Multi) Append(ctx context.Context, rec domain.HistoricalRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every store concurrently and returns the first failure.
func (m Multi) Close() error {
	var g errgroup.Group
	for _, s := range m {
		g.Go(s.Close)
	}
	return g.Wait()
}

// Mirror adapts a StateCache to HistoricalStore so it can sit in a Multi.
type Mirror struct {
	Cache domain.StateCache
}

func (m Mirror) Append(ctx context.Context, rec domain.HistoricalRecord) error {
	return m.Cache.SetLatest(ctx, rec)
}

func (Mirror) Close() error { return nil }
