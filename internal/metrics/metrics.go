package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brother_adapter"

// Metrics - метрики опроса и HTTP-слоя на собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	pollCycles          prometheus.Counter
	transportFailures   prometheus.Counter
	consecutiveFailures prometheus.Gauge
	decoderFailures     *prometheus.CounterVec
	snapshotFields      prometheus.Gauge
	sinkFailures        *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	cycleDuration       prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Completed poll cycles.",
		}),
		transportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_failures_total",
			Help:      "Poll cycles aborted by a transport error.",
		}),
		consecutiveFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "consecutive_failures",
			Help:      "Transport failures since the last successful cycle.",
		}),
		decoderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decoder_failures_total",
			Help:      "Malformed or missing files per decoder family.",
		}, []string{"family", "reason"}),
		snapshotFields: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_fields",
			Help:      "Number of keys in the telemetry snapshot.",
		}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_failures_total",
			Help:      "Failed snapshot publications per sink.",
		}, []string{"sink"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"path", "status"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_cycle_seconds",
			Help:      "Duration of a poll cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}

	m.registry.MustRegister(
		m.pollCycles,
		m.transportFailures,
		m.consecutiveFailures,
		m.decoderFailures,
		m.snapshotFields,
		m.sinkFailures,
		m.httpRequests,
		m.cycleDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry возвращает реестр Prometheus.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает обработчик /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) CycleCompleted(seconds float64) {
	m.pollCycles.Inc()
	m.cycleDuration.Observe(seconds)
}

func (m *Metrics) TransportFailure(consecutive int) {
	m.transportFailures.Inc()
	m.consecutiveFailures.Set(float64(consecutive))
}

func (m *Metrics) ResetFailures() {
	m.consecutiveFailures.Set(0)
}

func (m *Metrics) DecoderFailure(family, reason string) {
	m.decoderFailures.WithLabelValues(family, reason).Inc()
}

func (m *Metrics) SnapshotSize(n int) {
	m.snapshotFields.Set(float64(n))
}

func (m *Metrics) SinkFailure(sink string) {
	m.sinkFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) HTTPRequest(path string, status int) {
	m.httpRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}
