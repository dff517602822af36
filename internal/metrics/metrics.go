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
	// RequestCounter counts HTTP requests by status code, method, and route
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commons_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commons_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commons_round_submissions_total",
			Help: "Round submissions by outcome",
		},
		[]string{"outcome"},
	)

	RoundsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commons_rounds_closed_total",
			Help: "Rounds closed by game owners",
		},
	)

	RowsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commons_round_entries_closed_total",
			Help: "Pending round entries stamped by a closure",
		},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commons_notification_failures_total",
			Help: "Owner notifications that could not be delivered",
		},
		[]string{"kind"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commons_results_cache_hits_total",
			Help: "Total number of results cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commons_results_cache_misses_total",
			Help: "Total number of results cache misses",
		},
	)

	StaleGamesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commons_stale_games_deleted_total",
			Help: "Unused games removed by housekeeping",
		},
	)
)

// Middleware records request counts and durations. The route template is
// used as the path label so ids do not explode the label set.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		RequestCounter.WithLabelValues(status, c.Request.Method, path).Inc()
		RequestDuration.WithLabelValues(status, c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
