// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for the logging pipeline.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated by the logger. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	LinesWritten  prometheus.Counter
	LinesDropped  prometheus.Counter
	SyncFallbacks prometheus.Counter
	Rotations     *prometheus.CounterVec
	QueueDepth    prometheus.Gauge
}

// NewMetrics creates collectors and registers them on reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LinesWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "hioload_log_lines_written_total",
			Help: "Total number of log lines written to disk",
		}),
		LinesDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "hioload_log_lines_dropped_total",
			Help: "Total number of log lines lost to write failures",
		}),
		SyncFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "hioload_log_sync_fallbacks_total",
			Help: "Lines written synchronously because the async queue was full",
		}),
		Rotations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hioload_log_rotations_total",
			Help: "Log file rotations by reason",
		}, []string{"reason"}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "hioload_log_queue_depth",
			Help: "Formatted lines waiting for the writer goroutine",
		}),
	}
}

func (m *Metrics) IncWritten() {
	if m != nil {
		m.LinesWritten.Inc()
	}
}

func (m *Metrics) AddDropped(n int) {
	if m != nil {
		m.LinesDropped.Add(float64(n))
	}
}

func (m *Metrics) IncSyncFallback() {
	if m != nil {
		m.SyncFallbacks.Inc()
	}
}

// IncRotation records a rotation; reason is "day" or "lines".
func (m *Metrics) IncRotation(reason string) {
	if m != nil {
		m.Rotations.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) SetQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}
