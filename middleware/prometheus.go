package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Console HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Console HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	guardDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_guard_decisions_total",
		Help: "Route guard evaluations by guard and outcome.",
	}, []string{"guard", "outcome"})

	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_upstream_requests_total",
		Help: "Requests sent to the workshop API by method and status.",
	}, []string{"method", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_upstream_request_duration_seconds",
		Help:    "Workshop API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	sessionChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_session_changes_total",
		Help: "Session state changes by kind (initialize, authenticate, logout).",
	}, []string{"kind"})
)

// PrometheusMiddleware records request count and latency per matched route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func ObserveGuardDecision(guard string, allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	guardDecisionsTotal.WithLabelValues(guard, outcome).Inc()
}

// ObserveUpstream records one workshop API call. status 0 means the request
// never got a response.
func ObserveUpstream(method string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	upstreamRequestsTotal.WithLabelValues(method, label).Inc()
	upstreamRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

func RecordSessionChange(kind string) {
	sessionChangesTotal.WithLabelValues(kind).Inc()
}
