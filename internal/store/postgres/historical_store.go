package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
)

// Execer is the subset of *pgxpool.Pool used for inserts.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// HistoricalStore implements domain.HistoricalStore on the historical_records
// table. Every row is tagged with the run it belongs to.
type HistoricalStore struct {
	db    Execer
	runID string
}

// NewHistoricalStore creates a HistoricalStore writing rows for runID.
func NewHistoricalStore(db Execer, runID string) *HistoricalStore {
	return &HistoricalStore{db: db, runID: runID}
}

// Append inserts rec.
func (s *HistoricalStore) Append(ctx context.Context, rec domain.HistoricalRecord) error {
	const query = `INSERT INTO historical_records (run_id, stream, record_key, line, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.Exec(ctx, query, s.runID, rec.Stream, rec.Key, rec.Line, rec.Timestamp); err != nil {
		return fmt.Errorf("postgres: insert %s/%s: %w", rec.Stream, rec.Key, err)
	}
	return nil
}

// Close is a no-op; the pool is owned by Client.
func (s *HistoricalStore) Close() error { return nil }
