package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegisterAndCount(t *testing.T) {
	m := NewMetrics()

	m.IncScrape("coto", "success")
	m.IncScrape("coto", "error")
	m.IncScrape("dia", "success")
	m.IncRetry("solofutbol")
	m.ObserveScrape("coto", 2*time.Second)
	m.ObserveBatch(10 * time.Second)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ScrapesTotal.WithLabelValues("coto", "success")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ScrapesTotal.WithLabelValues("coto", "error")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.RetriesTotal.WithLabelValues("solofutbol")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BatchesTotal))

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	m.IncScrape("coto", "success")
	m.IncRetry("dia")
	m.ObserveScrape("dia", time.Second)
	m.ObserveBatch(time.Second)
}
