package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	XPAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillkart_xp_awarded_total",
			Help: "Experience points awarded, by reason",
		},
		[]string{"reason"},
	)

	BadgesAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillkart_badges_awarded_total",
			Help: "Badges awarded, by badge code",
		},
		[]string{"badge"},
	)

	ResourcesCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillkart_resources_completed_total",
			Help: "Roadmap resources marked complete",
		},
	)

	RoadmapsEnrolled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillkart_roadmaps_enrolled_total",
			Help: "Catalog roadmaps cloned into a learner's plan",
		},
		[]string{"source"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(XPAwarded)
		prometheus.MustRegister(BadgesAwarded)
		prometheus.MustRegister(ResourcesCompleted)
		prometheus.MustRegister(RoadmapsEnrolled)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
