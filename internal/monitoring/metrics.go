package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the telemetry pipeline.
type Metrics struct {
	// Span metrics
	SpansStarted prometheus.Counter
	SpansEnded   prometheus.Counter
	SpansOpen    prometheus.Gauge

	// Delta metrics
	DeltasPublished *prometheus.CounterVec
	DeltasDropped   prometheus.Counter

	// Viewer metrics
	ViewersConnected prometheus.Gauge

	// Renderer metrics
	RenderFailures prometheus.Counter

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// New creates a metrics collector registered with the given registerer.
// Tests pass a fresh prometheus.NewRegistry to avoid duplicate
// registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		startTime: time.Now(),

		SpansStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "telemetry_spans_started_total",
			Help: "Total number of span start events accepted",
		}),
		SpansEnded: factory.NewCounter(prometheus.CounterOpts{
			Name: "telemetry_spans_ended_total",
			Help: "Total number of span end events accepted",
		}),
		SpansOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "telemetry_spans_open",
			Help: "Number of spans currently open",
		}),

		DeltasPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "telemetry_deltas_published_total",
				Help: "Total number of render deltas published",
			},
			[]string{"op"},
		),
		DeltasDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "telemetry_deltas_dropped_total",
			Help: "Total number of render deltas dropped on slow viewers",
		}),

		ViewersConnected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "telemetry_viewers_connected",
			Help: "Number of currently connected viewers",
		}),

		RenderFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "telemetry_render_failures_total",
			Help: "Total number of recovered renderer failures",
		}),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "telemetry_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "telemetry_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		Uptime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "telemetry_uptime_seconds",
			Help: "Service uptime in seconds",
		}),
	}
}

// RecordSpanStarted increments span start counters.
func (m *Metrics) RecordSpanStarted() {
	m.SpansStarted.Inc()
	m.SpansOpen.Inc()
}

// RecordSpanEnded increments span end counters.
func (m *Metrics) RecordSpanEnded() {
	m.SpansEnded.Inc()
	m.SpansOpen.Dec()
}

// RecordDeltaPublished counts a delta handed to a viewer queue, by
// operation. Publishes to an empty container record nothing.
func (m *Metrics) RecordDeltaPublished(op string) {
	m.DeltasPublished.WithLabelValues(op).Inc()
}

// RecordDeltaDropped counts a delta dropped on a slow viewer.
func (m *Metrics) RecordDeltaDropped() {
	m.DeltasDropped.Inc()
}

// RecordViewerConnected tracks a viewer subscription.
func (m *Metrics) RecordViewerConnected() {
	m.ViewersConnected.Inc()
}

// RecordViewerDisconnected tracks a viewer unsubscription.
func (m *Metrics) RecordViewerDisconnected() {
	m.ViewersConnected.Dec()
}

// RecordRenderFailure counts a recovered renderer failure.
func (m *Metrics) RecordRenderFailure() {
	m.RenderFailures.Inc()
}

// RecordHTTPRequest records metrics for a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
