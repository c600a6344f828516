package domain

import "context"

// StateCache mirrors the latest record per key of each stream into a shared
// cache so that external tools can observe the desk while a run progresses.
type StateCache interface {
	SetLatest(ctx context.Context, rec HistoricalRecord) error
}
