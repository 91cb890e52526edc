package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	capabilityDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "capability_call_duration_seconds",
		Help: "Duration of external capability calls.",
	}, []string{"capability"})

	capabilityFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capability_fallbacks_total",
		Help: "Total number of capability calls that degraded to a default value.",
	}, []string{"capability", "reason"})

	trendSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trend_sentiment_samples_total",
		Help: "Total number of feedback records sampled for trend sentiment.",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests.",
	}, []string{"path"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"path", "method", "code"})
)

// ObserveCapability records the duration of one external capability call.
func ObserveCapability(capability string, d time.Duration) {
	capabilityDuration.WithLabelValues(capability).Observe(d.Seconds())
}

// CountFallback records one degraded capability call. The reason must be a
// low-cardinality category, not a free-form error string.
func CountFallback(capability, reason string) {
	capabilityFallbacks.WithLabelValues(capability, reason).Inc()
}

// CountTrendSamples records how many records were sampled for bucket sentiment.
func CountTrendSamples(n int) {
	trendSamplesTotal.Add(float64(n))
}

// GinMiddleware instruments request counts and latencies per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
