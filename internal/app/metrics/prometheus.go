package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the speech relay
type Metrics struct {
	registry *prometheus.Registry

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Conversion metrics
	Conversions        *prometheus.CounterVec
	ConversionDuration prometheus.Histogram

	// Upstream recognition metrics
	RecognitionRequests *prometheus.CounterVec
	RecognitionDuration *prometheus.HistogramVec

	// Scratch metrics
	ScratchInFlight prometheus.Gauge
	UploadSize      prometheus.Histogram
}

// NewMetrics creates a private registry and registers all relay metrics on it
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		Conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_conversions_total",
			Help: "Total number of ffmpeg conversions by outcome",
		}, []string{"outcome"}),
		ConversionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_conversion_duration_seconds",
			Help:    "Time spent converting uploads to linear PCM",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}),

		RecognitionRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_recognition_requests_total",
			Help: "Total number of upstream recognition calls by backend and outcome",
		}, []string{"backend", "outcome"}),
		RecognitionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_recognition_duration_seconds",
			Help:    "Duration of upstream recognition calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		}, []string{"backend"}),

		ScratchInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "relay_scratch_artifacts_in_flight",
			Help: "Number of scratch artifacts currently held by requests",
		}),
		UploadSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_upload_size_bytes",
			Help:    "Size of uploaded audio files",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8), // 16KB to ~256MB
		}),
	}
}

// Registry returns the registry backing the /metrics endpoint
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordConversion records one converter run with outcome "success", "failure" or "timeout"
func (m *Metrics) RecordConversion(outcome string, durationSeconds float64) {
	m.Conversions.WithLabelValues(outcome).Inc()
	m.ConversionDuration.Observe(durationSeconds)
}

// RecordRecognition records one upstream call
func (m *Metrics) RecordRecognition(backend, outcome string, durationSeconds float64) {
	m.RecognitionRequests.WithLabelValues(backend, outcome).Inc()
	m.RecognitionDuration.WithLabelValues(backend).Observe(durationSeconds)
}

// SetScratchInFlight sets the current number of held scratch artifacts
func (m *Metrics) SetScratchInFlight(count int) {
	m.ScratchInFlight.Set(float64(count))
}

// RecordUploadSize records the size of a stored upload
func (m *Metrics) RecordUploadSize(sizeBytes int64) {
	m.UploadSize.Observe(float64(sizeBytes))
}
