// Package metrics exposes scan pipeline activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"beamscan/internal/domain/scan"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EventDropped labels events lost to a full capture buffer.
const EventDropped = "dropped"

// Collector implements the scanner and capture metrics interfaces on its own
// registry.
type Collector struct {
	registry *prometheus.Registry

	sessionsOpened  *prometheus.CounterVec
	sessionOutcomes *prometheus.CounterVec
	events          *prometheus.CounterVec
	results         *prometheus.CounterVec
	captureStarts   *prometheus.CounterVec
	resolveLatency  prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sessionsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beamscan_sessions_opened_total",
			Help: "Scan sessions opened by mode.",
		}, []string{"mode"}),
		sessionOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beamscan_session_outcomes_total",
			Help: "Scan session outcomes by mode and result kind or error code.",
		}, []string{"mode", "outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beamscan_raw_events_total",
			Help: "Decoded camera events by disposition.",
		}, []string{"disposition"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beamscan_classified_results_total",
			Help: "Classified payloads by result kind.",
		}, []string{"kind"}),
		captureStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beamscan_capture_starts_total",
			Help: "Capture start attempts by result.",
		}, []string{"result"}),
		resolveLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "beamscan_session_resolve_seconds",
			Help:    "Time from session open to outcome.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
	c.registry.MustRegister(
		c.sessionsOpened,
		c.sessionOutcomes,
		c.events,
		c.results,
		c.captureStarts,
		c.resolveLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordSessionOpened(mode scan.Mode) {
	c.sessionsOpened.WithLabelValues(string(mode)).Inc()
}

func (c *Collector) RecordSessionOutcome(mode scan.Mode, outcome string) {
	c.sessionOutcomes.WithLabelValues(string(mode), outcome).Inc()
}

func (c *Collector) RecordEvent(disposition string) {
	c.events.WithLabelValues(disposition).Inc()
}

func (c *Collector) RecordResult(kind scan.ResultKind) {
	c.results.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) RecordResolveDuration(d time.Duration) {
	c.resolveLatency.Observe(d.Seconds())
}

func (c *Collector) RecordCaptureStart(result string) {
	c.captureStarts.WithLabelValues(result).Inc()
}

func (c *Collector) RecordEventDropped() {
	c.events.WithLabelValues(EventDropped).Inc()
}
