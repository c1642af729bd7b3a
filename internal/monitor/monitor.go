// Package monitor exposes Prometheus metrics on a side listener,
// separate from the API server.
package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Metrics struct {
	ScanAttempts  prometheus.Counter
	ScanSuccesses prometheus.Counter
	ScanRejected  *prometheus.CounterVec
	ScanDuration  prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ScanAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_attempts_total",
			Help:      "Total number of scan attempts",
		}),
		ScanSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_successes_total",
			Help:      "Total number of successful scans",
		}),
		ScanRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_rejected_total",
			Help:      "Scan attempts rejected before mutation, by reason",
		}, []string{"reason"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Scan attempt processing time",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.ScanAttempts,
		m.ScanSuccesses,
		m.ScanRejected,
		m.ScanDuration,
	)

	return m
}

type Monitor struct {
	metrics *Metrics
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{metrics: NewMetrics(namespace)}
}

// StartServer serves /metrics on its own listener in the background.
func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("Metrics listener stopped")
		}
	}()
}

func (m *Monitor) IncScanAttempts() {
	m.metrics.ScanAttempts.Inc()
}

func (m *Monitor) IncScanSuccesses() {
	m.metrics.ScanSuccesses.Inc()
}

func (m *Monitor) IncScanRejected(reason string) {
	m.metrics.ScanRejected.WithLabelValues(reason).Inc()
}

func (m *Monitor) ObserveScanDuration(duration time.Duration) {
	m.metrics.ScanDuration.Observe(duration.Seconds())
}
