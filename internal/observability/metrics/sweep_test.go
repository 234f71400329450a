package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepMetricsRecordsCounters(t *testing.T) {
	m := NewSweepMetrics()

	m.IncRun()
	m.IncRun()
	m.IncError()
	m.AddCharged(3)
	m.AddCharged(0)
	m.ObserveDuration(25 * time.Millisecond)

	assert.Equal(t, float64(2), counterValue(t, "sacco_sweep_runs_total"))
	assert.Equal(t, float64(1), counterValue(t, "sacco_sweep_errors_total"))
	assert.Equal(t, float64(3), counterValue(t, "sacco_sweep_invoices_charged_total"))
}

func TestSweepMetricsNilReceiver(t *testing.T) {
	var m *SweepMetrics

	// The scheduler runs without metrics in tests; none of these may panic.
	m.IncRun()
	m.IncError()
	m.AddCharged(5)
	m.ObserveDuration(time.Second)
}

func counterValue(t *testing.T, name string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		require.Len(t, family.GetMetric(), 1)
		require.Equal(t, dto.MetricType_COUNTER, family.GetType())
		return family.GetMetric()[0].GetCounter().GetValue()
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}
