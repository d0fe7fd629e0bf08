package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quisine/utils"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quisine",
			Name:      "http_requests_total",
			Help:      "Requests served, by route template and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quisine",
			Name:      "http_request_duration_seconds",
			Help:      "Request latency by route template",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"path"},
	)
)

// InitMetrics registers the HTTP collectors and the order metrics on reg.
func InitMetrics(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests, HTTPRequestDuration, utils.OrdersPlaced, utils.OpenOrders)
}

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}

// MetricsHandler serves the Prometheus scrape endpoint. With a non-empty allow list only
// those client IPs get through.
func MetricsHandler(gatherer prometheus.Gatherer, allowedIPs []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedIPs))
	for _, ip := range allowedIPs {
		allowed[ip] = true
	}
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		if len(allowed) > 0 && !allowed[c.ClientIP()] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Forbidden"})
			return
		}
		h.ServeHTTP(c.Writer, c.Request)
	}
}
