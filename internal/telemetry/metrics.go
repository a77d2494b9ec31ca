// =============================================================================
// Gensoft Converter - Metrics
// =============================================================================
//
// Conversion counters and timings, written as a Prometheus textfile.
//
// =============================================================================

package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gensoft"

// Outcome labels for conversions.
const (
	StatusSuccess    = "success"
	StatusReadError  = "read_error"
	StatusValidation = "validation_error"
	StatusWriteError = "write_error"
)

// Metrics collects conversion counters on a private registry. A CLI run
// dumps them once at exit, so nothing is served over HTTP.
type Metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	rows        prometheus.Counter
	duration    prometheus.Histogram
}

// New creates and registers the conversion metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversions attempted, by outcome.",
		}, []string{"status"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Data rows written to Gensoft workbooks.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Wall time of successful conversions.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	m.registry.MustRegister(m.conversions, m.rows, m.duration)
	return m
}

// ObserveSuccess records a conversion that wrote rows data rows.
func (m *Metrics) ObserveSuccess(rows int, elapsed time.Duration) {
	m.conversions.WithLabelValues(StatusSuccess).Inc()
	m.rows.Add(float64(rows))
	m.duration.Observe(elapsed.Seconds())
}

// ObserveFailure records a failed conversion under status.
func (m *Metrics) ObserveFailure(status string) {
	m.conversions.WithLabelValues(status).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
