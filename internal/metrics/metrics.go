// Package metrics exposes Prometheus instruments for the HTTP API, the
// favorite operations and the graph client.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application on a private registry.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	FavoriteOps        *prometheus.CounterVec
	FavoriteOpDuration *prometheus.HistogramVec

	GraphQueries       *prometheus.CounterVec
	GraphQueryDuration *prometheus.HistogramVec
}

// NewCollector creates and registers every metric under namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		FavoriteOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "favorite_operations_total",
				Help:      "Favorite operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		FavoriteOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "favorite_operation_duration_seconds",
				Help:      "Favorite operation latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		GraphQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_queries_total",
				Help:      "Graph statements by access mode and status",
			},
			[]string{"mode", "status"},
		),
		GraphQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_query_duration_seconds",
				Help:      "Graph statement latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.FavoriteOps,
		c.FavoriteOpDuration,
		c.GraphQueries,
		c.GraphQueryDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveOperation records one favorite operation.
func (c *Collector) ObserveOperation(op, outcome string, duration time.Duration) {
	c.FavoriteOps.WithLabelValues(op, outcome).Inc()
	c.FavoriteOpDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// ObserveQuery records one graph statement.
func (c *Collector) ObserveQuery(mode string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.GraphQueries.WithLabelValues(mode, status).Inc()
	c.GraphQueryDuration.WithLabelValues(mode).Observe(duration.Seconds())
}
