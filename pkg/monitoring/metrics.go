package monitoring

import (
	"strconv"
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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// PublishCounter 按模式和结果统计发布次数
	PublishCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_publish_total",
			Help: "Total number of exam publish attempts",
		},
		[]string{"mode", "result"},
	)

	// AutosaveCounter 会话自动保存刷盘次数
	AutosaveCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exam_session_autosave_total",
			Help: "Total number of exam session autosave flushes",
		},
	)

	// SessionRestoreCounter 会话恢复次数（resume 与 fresh 分开计数）
	SessionRestoreCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_session_open_total",
			Help: "Total number of exam session opens by outcome",
		},
		[]string{"outcome"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(PublishCounter)
	prometheus.MustRegister(AutosaveCounter)
	prometheus.MustRegister(SessionRestoreCounter)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
