package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process collectors. One instance lives for the whole
// process and is shared by the HTTP layer and the QC service.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	predictDuration *prometheus.HistogramVec
	runsTotal       *prometheus.CounterVec
	flagsTotal      *prometheus.CounterVec
}

// New creates and registers the collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beqc",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		predictDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beqc",
			Name:      "predict_duration_seconds",
			Help:      "Predictor latency by backend mode and outcome.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"mode", "outcome"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beqc",
			Name:      "runs_total",
			Help:      "Completed QC runs by mode.",
		}, []string{"mode"}),
		flagsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beqc",
			Name:      "flags_total",
			Help:      "Row flags produced, by flag value.",
		}, []string{"flag"}),
	}
	registry.MustRegister(m.requestDuration, m.predictDuration, m.runsTotal, m.flagsTotal)
	return m
}

// Handler exposes the registry for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObservePredict records one predictor call
func (m *Metrics) ObservePredict(mode string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.predictDuration.WithLabelValues(mode, outcome).Observe(elapsed.Seconds())
}

// CountRun records a completed run
func (m *Metrics) CountRun(mode string) {
	m.runsTotal.WithLabelValues(mode).Inc()
}

// CountFlag records one produced row flag
func (m *Metrics) CountFlag(flag string, n int) {
	m.flagsTotal.WithLabelValues(flag).Add(float64(n))
}
