// Package metrics collects and exposes Prometheus metrics for the HTTP
// surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the service metrics. One instance lives for the
// process and is shared by all handlers.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	recordsTotal    prometheus.Gauge
}

// NewCollector creates a Collector with its own registry, so tests can hold
// independent instances without double-registration panics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "birthday_http_request_duration_seconds",
			Help:    "HTTP request handling latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		recordsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "birthday_records",
			Help: "Number of birthday records currently stored.",
		}),
	}

	reg.MustRegister(c.requestsTotal, c.requestDuration, c.recordsTotal)
	return c
}

// RecordRequest counts one handled request.
func (c *Collector) RecordRequest(method string, statusCode int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// SetRecordCount updates the stored-records gauge.
func (c *Collector) SetRecordCount(n int) {
	c.recordsTotal.Set(float64(n))
}

// Handler returns the Prometheus exposition endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
