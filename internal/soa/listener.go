// Package soa provides the keyed store and listener fan-out that every desk
// service is built on.
package soa

import "context"

// EventKind classifies a notification delivered to a Listener.
type EventKind string

const (
	EventAdd    EventKind = "add"
	EventRemove EventKind = "remove"
	EventUpdate EventKind = "update"
)

// Listener receives events for values of type V.
type Listener[V any] interface {
	OnEvent(ctx context.Context, kind EventKind, v V) error
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc[V any] func(ctx context.Context, kind EventKind, v V) error

func (f ListenerFunc[V]) OnEvent(ctx context.Context, kind EventKind, v V) error {
	return f(ctx, kind, v)
}

// OnAdd returns a Listener that calls fn for add events and ignores
// remove and update.
func OnAdd[V any](fn func(ctx context.Context, v V) error) Listener[V] {
	return ListenerFunc[V](func(ctx context.Context, kind EventKind, v V) error {
		if kind != EventAdd {
			return nil
		}
		return fn(ctx, v)
	})
}

// Service is the contract shared by all keyed desk services.
type Service[V any] interface {
	// GetData returns the latest value for key, or the zero V if the key has
	// never been seen.
	GetData(key string) V
	// OnMessage ingests v.
	OnMessage(ctx context.Context, v V) error
	// AddListener subscribes l. Listeners are notified in registration order.
	AddListener(l Listener[V])
	// Listeners returns a snapshot of the subscribed listeners.
	Listeners() []Listener[V]
}
