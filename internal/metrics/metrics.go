// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/justgrid/pkg/observability"
)

// Metrics holds the collectors and implements observability.Hooks.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	frames        prometheus.Histogram
	rows          prometheus.Histogram

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	inFlight        prometheus.Gauge
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
}

var _ observability.Hooks = (*Metrics)(nil)

// New creates the collectors and registers them with reg. A nil reg gets a
// fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "justgrid_stage_duration_seconds",
			Help:    "Duration of pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "justgrid_stage_errors_total",
			Help: "Pipeline stage failures.",
		}, []string{"stage"}),
		frames: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "justgrid_layout_frames",
			Help:    "Frames per layout request.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "justgrid_layout_rows",
			Help:    "Rows per computed layout.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "justgrid_cache_operations_total",
			Help: "Cache lookups and writes by entry kind and result.",
		}, []string{"kind", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "justgrid_cache_written_bytes_total",
			Help: "Bytes written to the cache by entry kind.",
		}, []string{"kind"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "justgrid_http_requests_in_flight",
			Help: "HTTP requests being served.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "justgrid_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "justgrid_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "justgrid_http_errors_total",
			Help: "HTTP handler failures by error code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(
		m.stageDuration, m.stageErrors, m.frames, m.rows,
		m.cacheOps, m.cacheBytes,
		m.inFlight, m.requests, m.requestDuration, m.requestErrors,
	)
	return m
}

// Register installs m as the process-wide observability hooks.
func (m *Metrics) Register() {
	observability.Set(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Stage records a finished pipeline stage.
func (m *Metrics) Stage(_ context.Context, ev observability.StageEvent) {
	stage := string(ev.Stage)
	m.stageDuration.WithLabelValues(stage).Observe(ev.Duration.Seconds())
	if ev.Err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
		return
	}
	if ev.Stage == observability.StageLayout {
		m.frames.Observe(float64(ev.Frames))
		m.rows.Observe(float64(ev.Rows))
	}
}

// Cache counts cache operations and written bytes.
func (m *Metrics) Cache(_ context.Context, ev observability.CacheEvent) {
	m.cacheOps.WithLabelValues(ev.Kind, string(ev.Result)).Inc()
	if ev.Result == observability.CacheSet {
		m.cacheBytes.WithLabelValues(ev.Kind).Add(float64(ev.Bytes))
	}
}

// RequestStarted tracks in-flight requests.
func (m *Metrics) RequestStarted(context.Context, string) {
	m.inFlight.Inc()
}

// Request records a served request.
func (m *Metrics) Request(_ context.Context, ev observability.RequestEvent) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(ev.Method, ev.Route, strconv.Itoa(ev.Status)).Inc()
	m.requestDuration.WithLabelValues(ev.Method, ev.Route).Observe(ev.Duration.Seconds())
	if ev.Code != "" {
		m.requestErrors.WithLabelValues(ev.Route, ev.Code).Inc()
	}
}
