// Package file implements domain.HistoricalStore as one append-only text file
// per stream, rotated by size.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
)

// Config controls where streams are written.
type Config struct {
	Dir string
	// Files maps a stream name to its file name inside Dir. Streams not listed
	// are written to "<stream>.txt".
	Files      map[string]string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

// Store writes "timestamp, record" lines.
type Store struct {
	cfg Config

	mu      sync.Mutex
	writers map[string]*lumberjack.Logger
}

// New creates the output directory and returns a Store. Files are opened on
// first write.
func New(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 100
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("file_store: create %s: %w", cfg.Dir, err)
	}
	return &Store{cfg: cfg, writers: make(map[string]*lumberjack.Logger)}, nil
}

// Path returns the file a stream is written to.
func (s *Store) Path(stream string) string {
	name, ok := s.cfg.Files[stream]
	if !ok || name == "" {
		name = stream + ".txt"
	}
	return filepath.Join(s.cfg.Dir, name)
}

// Paths returns the files written so far, sorted.
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.writers))
	for _, w := range s.writers {
		out = append(out, w.Filename)
	}
	sort.Strings(out)
	return out
}

// Append writes rec to its stream's file.
func (s *Store) Append(_ context.Context, rec domain.HistoricalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.writers[rec.Stream]
	if !ok {
		w = &lumberjack.Logger{
			Filename:   s.Path(rec.Stream),
			MaxSize:    s.cfg.MaxSizeMB,
			MaxBackups: s.cfg.MaxBackups,
			Compress:   s.cfg.Compress,
		}
		s.writers[rec.Stream] = w
	}
	if _, err := w.Write([]byte(rec.Formatted() + "\n")); err != nil {
		return fmt.Errorf("file_store: write %s: %w", rec.Stream, err)
	}
	return nil
}

// Close flushes and closes every open file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for stream, w := range s.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("file_store: close %s: %w", stream, err))
		}
	}
	return errors.Join(errs...)
}
