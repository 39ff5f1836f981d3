// Package metrics exposes Prometheus counters for catalogue operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "anidopt"

// Recorder counts service operations by entity, operation and outcome, and
// times them. A nil *Recorder records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	events     *prometheus.CounterVec
}

// NewRecorder creates a Recorder backed by its own registry, which also
// carries the Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Catalogue service operations by outcome.",
		}, []string{"entity", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Latency of catalogue service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "operation"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "processed_total",
			Help:      "Consumed or published events by type and result.",
		}, []string{"direction", "type", "result"}),
	}
	reg.MustRegister(
		r.operations,
		r.duration,
		r.events,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe records one finished operation. The outcome label is derived from
// err.
func (r *Recorder) Observe(entity, operation string, started time.Time, err error) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(entity, operation, Outcome(err)).Inc()
	r.duration.WithLabelValues(entity, operation).Observe(time.Since(started).Seconds())
}

// Event records a published or consumed event.
func (r *Recorder) Event(direction, eventType, result string) {
	if r == nil {
		return
	}
	r.events.WithLabelValues(direction, eventType, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Outcome classifies an operation error into a bounded label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err):
		return "validation"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsConflict(err):
		return "conflict"
	case domain.IsIdentityMismatch(err):
		return "identity_mismatch"
	case domain.IsDuplicateLink(err):
		return "duplicate_link"
	case domain.IsConstraintViolation(err):
		return "constraint_violation"
	}
	return "error"
}
