package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

func (m *Manager) initHTTPMetrics(cfg Config) {
	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: cfg.HTTPDurationBuckets,
		},
		[]string{"method", "path"},
	)
	m.httpConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Current number of active HTTP connections",
		},
	)

	m.registry.MustRegister(m.httpRequests, m.httpDuration, m.httpConnections)
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.recordHTTPRequest(context.Background(), method, path, status, duration)
}

// RecordHTTPRequestWithContext is RecordHTTPRequest plus exemplar trace
// labels, when ctx carries a valid span context and the backing metric supports
// exemplars.
func (m *Manager) RecordHTTPRequestWithContext(ctx context.Context, method, path, status string, duration time.Duration) {
	m.recordHTTPRequest(ctx, method, path, status, duration)
}

func (m *Manager) recordHTTPRequest(ctx context.Context, method, path, status string, duration time.Duration) {
	if !m.enabled {
		return
	}

	exemplar, hasExemplar := traceExemplarLabels(ctx)

	counter := m.httpRequests.WithLabelValues(method, path, status)
	if adder, ok := counter.(prometheus.ExemplarAdder); ok && hasExemplar {
		adder.AddWithExemplar(1, exemplar)
	} else {
		counter.Inc()
	}

	histogram := m.httpDuration.WithLabelValues(method, path)
	if observer, ok := histogram.(prometheus.ExemplarObserver); ok && hasExemplar {
		observer.ObserveWithExemplar(duration.Seconds(), exemplar)
	} else {
		histogram.Observe(duration.Seconds())
	}
}

// IncActiveConnections bumps the in-flight connection gauge.
func (m *Manager) IncActiveConnections() {
	if m.enabled {
		m.httpConnections.Inc()
	}
}

// DecActiveConnections releases one in-flight connection.
func (m *Manager) DecActiveConnections() {
	if m.enabled {
		m.httpConnections.Dec()
	}
}

// traceExemplarLabels extracts exemplar labels from a valid span context.
func traceExemplarLabels(ctx context.Context) (prometheus.Labels, bool) {
	if ctx == nil {
		return nil, false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil, false
	}
	return prometheus.Labels{
		"trace_id": sc.TraceID().String(),
		"span_id":  sc.SpanID().String(),
	}, true
}
