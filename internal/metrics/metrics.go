package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "playersnap"

// Operation results
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder collects per-invocation metrics. Every CLI run is short lived, so
// the registry is written to a node_exporter textfile instead of being scraped.
type Recorder struct {
	registry *prometheus.Registry

	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	stepFailures *prometheus.CounterVec
	lastSuccess  *prometheus.GaugeVec
	tracks       prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Number of save, resume and close operations by result.",
			}, []string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Wall time of each operation.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"op"},
		),
		stepFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "restore",
				Name:      "step_failures_total",
				Help:      "Restore sequences aborted, by the step that failed.",
			}, []string{"step"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful operation.",
			}, []string{"op"},
		),
		tracks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "record_tracks",
				Help:      "Queue length of the last saved or resumed record.",
			},
		),
	}
	r.registry.MustRegister(r.operations, r.duration, r.stepFailures, r.lastSuccess, r.tracks)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveOperation records one finished operation
func (r *Recorder) ObserveOperation(op string, err error, elapsed time.Duration) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.operations.WithLabelValues(op, result).Inc()
	r.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err == nil {
		r.lastSuccess.WithLabelValues(op).SetToCurrentTime()
	}
}

// IncStepFailure counts a restore aborted at step
func (r *Recorder) IncStepFailure(step string) {
	r.stepFailures.WithLabelValues(step).Inc()
}

// SetTracks records the queue length of the record just handled
func (r *Recorder) SetTracks(n int) {
	r.tracks.Set(float64(n))
}

// Flush writes the registry to path in the text exposition format.
// An empty path disables the export.
func (r *Recorder) Flush(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
