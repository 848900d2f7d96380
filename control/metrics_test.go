package control

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.IncWritten()
	m.IncWritten()
	m.AddDropped(1)
	m.IncSyncFallback()
	m.IncRotation("day")
	m.SetQueueDepth(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LinesWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinesDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncFallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rotations.WithLabelValues("day")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.QueueDepth))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncWritten()
	m.AddDropped(1)
	m.IncSyncFallback()
	m.IncRotation("lines")
	m.SetQueueDepth(1)
}
