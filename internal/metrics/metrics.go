// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the realtime relay.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the server publishes. It satisfies both the
// middleware.RequestObserver and relay.Metrics interfaces.
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	relayConnections prometheus.Gauge
	relayPayloads    *prometheus.CounterVec
}

// NewCollector builds the metric set and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perfectplan_http_requests_total",
			Help: "HTTP requests served, by method, path, and status.",
		}, []string{"method", "path", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "perfectplan_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		relayConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perfectplan_relay_connections",
			Help: "Currently open websocket connections.",
		}),
		relayPayloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perfectplan_relay_payloads_total",
			Help: "Payloads relayed through the hub, by event type.",
		}, []string{"type"}),
	}

	reg.MustRegister(c.httpRequests, c.httpLatency, c.relayConnections, c.relayPayloads)
	return c
}

// ObserveRequest records one completed HTTP request.
func (c *Collector) ObserveRequest(method, path string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ConnectionOpened records a new relay subscriber.
func (c *Collector) ConnectionOpened() {
	c.relayConnections.Inc()
}

// ConnectionClosed records a departed relay subscriber.
func (c *Collector) ConnectionClosed() {
	c.relayConnections.Dec()
}

// PayloadRelayed records a payload fanned out by the hub.
func (c *Collector) PayloadRelayed(eventType string) {
	c.relayPayloads.WithLabelValues(eventType).Inc()
}

// Handler serves the scrape endpoint for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
