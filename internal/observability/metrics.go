// Package observability exposes run metrics. Purely informational; no
// other component depends on it and a nil *Metrics disables collection.
package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for a crawl run.
type Metrics struct {
	Registry       *prometheus.Registry
	QueriesTotal   prometheus.Counter
	RecordsTotal   prometheus.Counter
	SkippedTotal   *prometheus.CounterVec
	RenderDuration prometheus.Histogram

	logger *slog.Logger
}

// NewMetrics constructs and registers all metrics on a dedicated
// registry.
func NewMetrics(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	queries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricescout_queries_total",
		Help: "Total queries attempted.",
	})
	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricescout_records_total",
		Help: "Total product records produced.",
	})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricescout_skipped_total",
		Help: "Total queries skipped, by reason.",
	}, []string{"reason"})
	renderDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricescout_render_duration_seconds",
		Help:    "Page render latency.",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(queries, records, skipped, renderDuration)

	return &Metrics{
		Registry:       registry,
		QueriesTotal:   queries,
		RecordsTotal:   records,
		SkippedTotal:   skipped,
		RenderDuration: renderDuration,
		logger:         logger.With("component", "metrics"),
	}
}

// IncQueries increments the attempted-queries counter.
func (m *Metrics) IncQueries() {
	if m == nil {
		return
	}
	m.QueriesTotal.Inc()
}

// IncRecords increments the produced-records counter.
func (m *Metrics) IncRecords() {
	if m == nil {
		return
	}
	m.RecordsTotal.Inc()
}

// IncSkipped increments the skipped counter for a reason label.
func (m *Metrics) IncSkipped(reason string) {
	if m == nil {
		return
	}
	m.SkippedTotal.WithLabelValues(reason).Inc()
}

// ObserveRender records a page render duration.
func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(d.Seconds())
}

// StartServer serves the registry over HTTP in the background.
func (m *Metrics) StartServer(port int, path string) error {
	if m == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf(":%d", port)
	ln := &http.Server{Addr: addr, Handler: mux}

	go func() {
		m.logger.Info("metrics server listening", "addr", addr, "path", path)
		if err := ln.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("metrics server error", "error", err)
		}
	}()
	return nil
}
