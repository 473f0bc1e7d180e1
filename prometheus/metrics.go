package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Studio provisioning counter
	ProvisionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_provision_total",
			Help: "Total number of studio provisioning attempts",
		},
	)

	// Lifecycle operation counter
	LifecycleOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_lifecycle_operations_total",
			Help: "Total number of studio lifecycle operations",
		},
		[]string{"action"}, // action can be "archive", "unarchive", "delete"
	)

	// Purge batch counter by subcollection
	PurgeBatchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_purge_batches_total",
			Help: "Total number of deletion batches executed per subcollection",
		},
		[]string{"collection"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_errors_total",
			Help: "Total number of errors by taxonomy code",
		},
		[]string{"code"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "provision", "purge", "archive", "delete"
	)
)

// Gauge metrics
var (
	// Active (non-archived) studios
	ActiveStudiosGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "studio_active_total",
			Help: "Number of currently active studios",
		},
	)
)

func init() {
	prometheus.MustRegister(ProvisionCounter)
	prometheus.MustRegister(LifecycleOperationCounter)
	prometheus.MustRegister(PurgeBatchCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(ErrorCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveStudiosGauge)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordLifecycleOperation records a lifecycle operation by action
func RecordLifecycleOperation(action string) {
	LifecycleOperationCounter.With(prometheus.Labels{"action": action}).Inc()
}

// RecordPurgeBatch records one executed deletion batch for a subcollection
func RecordPurgeBatch(collection string) {
	PurgeBatchCounter.With(prometheus.Labels{"collection": collection}).Inc()
}

// RecordError records an error by taxonomy code
func RecordError(code string) {
	ErrorCounter.With(prometheus.Labels{"code": code}).Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
