// Package metrics exposes Prometheus collectors for the API server.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aeroprep",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aeroprep",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LiveSessions tracks sessions currently held in the registry.
	LiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "aeroprep",
		Name:      "live_sessions",
		Help:      "In-progress exam and practice sessions.",
	})

	// Submissions counts graded submissions by trigger.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aeroprep",
		Name:      "submissions_total",
		Help:      "Graded submissions by trigger (manual or timer).",
	}, []string{"trigger"})

	// CheckpointsPersisted counts checkpoint rows flushed by the worker.
	CheckpointsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aeroprep",
		Name:      "checkpoints_persisted_total",
		Help:      "Answer checkpoints flushed to storage.",
	})
)

// Middleware records per-request counters and latency.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the /metrics scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
