package journal

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcome labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// PrometheusMetrics records submission outcomes.
//
// Metrics exposed (all namespaced with "journal_"):
//
//  1. submissions_total (counter): Requests sent, by status (success/error).
//     This is the failure indicator for fire-and-forget submissions.
//  2. submit_latency_ms (histogram): Time from dispatch to response, by status.
//  3. inflight_submissions (gauge): Requests currently waiting for a response.
//
// Expose via HTTP for Prometheus scraping:
//
//	registry := prometheus.NewRegistry()
//	metrics := journal.NewPrometheusMetrics(registry)
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
//
// A nil *PrometheusMetrics is valid and records nothing.
type PrometheusMetrics struct {
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	inflight    prometheus.Gauge

	mu      sync.RWMutex
	enabled bool
}

// NewPrometheusMetrics creates and registers the submission metrics with
// registry (prometheus.DefaultRegisterer when nil).
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &PrometheusMetrics{
		enabled: true,
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "submissions_total",
			Help:      "Entry submissions sent to the journal server, by outcome",
		}, []string{"status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "journal",
			Name:      "submit_latency_ms",
			Help:      "Entry submission duration in milliseconds (from dispatch to response)",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"status"}),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "journal",
			Name:      "inflight_submissions",
			Help:      "Entry submissions currently waiting for a response",
		}),
	}
}

// RecordSubmission counts one finished submission and observes its latency.
func (pm *PrometheusMetrics) RecordSubmission(status string, latency time.Duration) {
	if !pm.isEnabled() {
		return
	}

	pm.submissions.WithLabelValues(status).Inc()
	pm.latency.WithLabelValues(status).Observe(float64(latency.Milliseconds()))
}

// StartInflight marks a request as dispatched and returns the func that marks
// it finished. The decrement happens only if the increment did, so toggling
// Enable/Disable mid-flight never leaves the gauge skewed.
func (pm *PrometheusMetrics) StartInflight() (done func()) {
	if !pm.isEnabled() {
		return func() {}
	}

	pm.inflight.Inc()
	var once sync.Once
	return func() {
		once.Do(pm.inflight.Dec)
	}
}

// Disable temporarily disables metric recording.
func (pm *PrometheusMetrics) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = false
}

// Enable re-enables metric recording after Disable().
func (pm *PrometheusMetrics) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = true
}

// Reset zeroes the inflight gauge. Counters and histograms are cumulative and
// stay registered. Call it only while no request is in flight.
func (pm *PrometheusMetrics) Reset() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.inflight.Set(0)
}

func (pm *PrometheusMetrics) isEnabled() bool {
	if pm == nil {
		return false
	}
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}
