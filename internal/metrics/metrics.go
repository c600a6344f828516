// Package metrics counts desk activity with Prometheus collectors and dumps
// them in text exposition format at the end of a run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics owns a private registry so that independent runs and tests do not
// share counters.
type Metrics struct {
	registry *prometheus.Registry

	feedRecords     *prometheus.CounterVec
	published       *prometheus.CounterVec
	listenerFailure *prometheus.CounterVec
	archived        prometheus.Counter
}

// New creates and registers the desk collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		feedRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desk_feed_records_total",
				Help: "Feed records processed, by feed and result.",
			},
			[]string{"feed", "result"},
		),
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desk_service_events_total",
				Help: "Values published by each service store.",
			},
			[]string{"store"},
		),
		listenerFailure: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desk_listener_failures_total",
				Help: "Listener invocations that returned an error, by notifying store.",
			},
			[]string{"store"},
		),
		archived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "desk_archived_files_total",
			Help: "Output files uploaded to object storage.",
		}),
	}
	m.registry.MustRegister(m.feedRecords, m.published, m.listenerFailure, m.archived)
	return m
}

// Record implements feed.Observer.
func (m *Metrics) Record(feed, result string) {
	m.feedRecords.WithLabelValues(feed, result).Inc()
}

// Published implements soa.Observer.
func (m *Metrics) Published(store string) {
	m.published.WithLabelValues(store).Inc()
}

// ListenerFailed implements soa.Observer.
func (m *Metrics) ListenerFailed(store string) {
	m.listenerFailure.WithLabelValues(store).Inc()
}

// Archived adds n uploaded files.
func (m *Metrics) Archived(n int) {
	m.archived.Add(float64(n))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric to path in the node-exporter textfile
// format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
