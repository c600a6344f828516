package soa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Observer is told about store activity. Implemented by the metrics package.
type Observer interface {
	Published(store string)
	ListenerFailed(store string)
}

type nopObserver struct{}

func (nopObserver) Published(string)      {}
func (nopObserver) ListenerFailed(string) {}

// Option configures a Store.
type Option func(*options)

type options struct {
	observer Observer
}

// WithObserver reports store activity to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// Store is a last-write-wins map from key to V with an ordered listener list.
// It is safe for concurrent use. Listeners are invoked outside the store lock
// so that a listener may read back from the store that notified it.
type Store[V any] struct {
	name     string
	logger   *slog.Logger
	observer Observer

	mu        sync.RWMutex
	data      map[string]V
	listeners []Listener[V]
}

// NewStore creates an empty store. name is used in logs and metrics.
func NewStore[V any](name string, logger *slog.Logger, opts ...Option) *Store[V] {
	o := options{observer: nopObserver{}}
	for _, fn := range opts {
		fn(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[V]{
		name:     name,
		logger:   logger.With(slog.String("store", name)),
		observer: o.observer,
		data:     make(map[string]V),
	}
}

// Name returns the store name.
func (s *Store[V]) Name() string { return s.name }

// GetData returns the value stored under key or the zero V.
func (s *Store[V]) GetData(key string) V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}

// Lookup returns the value stored under key and whether it exists.
func (s *Store[V]) Lookup(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Put overwrites the value under key without notifying listeners.
func (s *Store[V]) Put(key string, v V) {
	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
}

// Publish stores v under key and then delivers an add event to every
// listener.
func (s *Store[V]) Publish(ctx context.Context, key string, v V) error {
	s.Put(key, v)
	s.observer.Published(s.name)
	return s.Notify(ctx, EventAdd, v)
}

// Notify delivers an event to every listener in registration order. A failing
// listener does not stop delivery to the ones after it; all failures are
// returned joined.
func (s *Store[V]) Notify(ctx context.Context, kind EventKind, v V) error {
	var errs []error
	for i, l := range s.Listeners() {
		if err := l.OnEvent(ctx, kind, v); err != nil {
			s.observer.ListenerFailed(s.name)
			s.logger.ErrorContext(ctx, "listener failed",
				slog.Int("listener", i),
				slog.String("event", string(kind)),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: listener %d: %w", s.name, i, err))
		}
	}
	return errors.Join(errs...)
}

// AddListener appends l to the notification list.
func (s *Store[V]) AddListener(l Listener[V]) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Listeners returns a copy of the listener list.
func (s *Store[V]) Listeners() []Listener[V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Listener[V](nil), s.listeners...)
}

// Keys returns the stored keys in lexical order.
func (s *Store[V]) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
