// Package metrics counts pipeline work in a Prometheus registry and writes
// it for the node exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns a private registry. A nil Recorder discards observations.
type Recorder struct {
	registry       *prometheus.Registry
	rowsIngested   *prometheus.CounterVec
	rowsDropped    *prometheus.CounterVec
	mergeRows      *prometheus.CounterVec
	mergeUnmatched *prometheus.CounterVec
	detectRuns     *prometheus.CounterVec
	coincident     prometheus.Gauge
	stageDuration  *prometheus.HistogramVec
}

// New builds a Recorder with every barrel metric registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		rowsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "barrel_rows_ingested_total",
			Help: "Rows read from payload exports.",
		}, []string{"kind"}),
		rowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "barrel_rows_dropped_total",
			Help: "Rows dropped for missing or fill values.",
		}, []string{"kind"}),
		mergeRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "barrel_merge_rows_total",
			Help: "Rows written to merged products.",
		}, []string{"kind"}),
		mergeUnmatched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "barrel_merge_unmatched_rows_total",
			Help: "Merged rows with no second-payload sample within tolerance.",
		}, []string{"kind"}),
		detectRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "barrel_detect_runs_total",
			Help: "Detection runs by outcome.",
		}, []string{"outcome"}),
		coincident: factory.NewGauge(prometheus.GaugeOpts{
			Name: "barrel_detect_coincident_samples",
			Help: "Coincident samples flagged by the most recent detection run.",
		}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "barrel_stage_duration_seconds",
			Help:    "Wall time per pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"stage"}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Ingested records one loaded export.
func (r *Recorder) Ingested(kind string, rows, dropped int) {
	if r == nil {
		return
	}
	r.rowsIngested.WithLabelValues(kind).Add(float64(rows))
	r.rowsDropped.WithLabelValues(kind).Add(float64(dropped))
}

// Merged records one merged day.
func (r *Recorder) Merged(kind string, rows, unmatched int) {
	if r == nil {
		return
	}
	r.mergeRows.WithLabelValues(kind).Add(float64(rows))
	r.mergeUnmatched.WithLabelValues(kind).Add(float64(unmatched))
}

// Detected records a detection run outcome ("completed" or "failed") and,
// on success, the coincident sample count.
func (r *Recorder) Detected(outcome string, coincident int) {
	if r == nil {
		return
	}
	r.detectRuns.WithLabelValues(outcome).Inc()
	if outcome == "completed" {
		r.coincident.Set(float64(coincident))
	}
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry in text exposition format. The write is
// atomic so the collector never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
