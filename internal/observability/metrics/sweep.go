package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SweepMetrics tracks the late-fee sweep job.
type SweepMetrics struct {
	runs     prometheus.Counter
	errors   prometheus.Counter
	charged  prometheus.Counter
	duration prometheus.Histogram
}

func NewSweepMetrics() *SweepMetrics {
	return &SweepMetrics{
		runs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sacco_sweep_runs_total",
			Help: "Late-fee sweep executions.",
		}),
		errors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sacco_sweep_errors_total",
			Help: "Late-fee sweep executions that failed.",
		}),
		charged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sacco_sweep_invoices_charged_total",
			Help: "Invoices charged a late fee by the sweep.",
		}),
		duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sacco_sweep_duration_seconds",
			Help:    "Late-fee sweep duration.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *SweepMetrics) IncRun() {
	if m == nil {
		return
	}
	m.runs.Inc()
}

func (m *SweepMetrics) IncError() {
	if m == nil {
		return
	}
	m.errors.Inc()
}

func (m *SweepMetrics) AddCharged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.charged.Add(float64(n))
}

func (m *SweepMetrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}
