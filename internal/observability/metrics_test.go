package observability

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.IncQueries()
	m.IncRecords()
	m.IncSkipped("no_prices")
	m.ObserveRender(time.Second)
	assert.NoError(t, m.StartServer(0, "/metrics"))
}

func TestCounters(t *testing.T) {
	m := NewMetrics(testLogger)

	m.IncQueries()
	m.IncQueries()
	m.IncRecords()
	m.IncSkipped("timeout")
	m.IncSkipped("timeout")
	m.IncSkipped("no_candidate")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QueriesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SkippedTotal.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkippedTotal.WithLabelValues("no_candidate")))
}
