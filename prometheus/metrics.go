// Package prometheus holds the service's collectors and the echo middleware that feeds them.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "project"

const version = "1.0.0"

var requestLabels = []string{"endpoint", "method", "status"}

var (
	LoginCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Token requests received",
	})

	RegisterCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Registration requests received",
	})

	HTTPRequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and final status",
	}, requestLabels)

	// type is a short reason such as missing_token or invalid_credentials
	AuthErrorCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_errors_total",
		Help:      "Rejected authentication attempts by reason",
	}, []string{"type"})

	ProjectOperationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Successful project and membership writes",
	}, []string{"operation"})

	TaskOperationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "task",
		Name:      "operations_total",
		Help:      "Successful task writes",
	}, []string{"operation"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, requestLabels)

	DBOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "operation_duration_seconds",
		Help:      "Latency of gorm statements by kind",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	_ = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "info",
		Help:        "Build information",
		ConstLabels: prometheus.Labels{"version": version},
	}, func() float64 { return 1 })
)

// GetPrometheusHandler serves the default registry
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware counts and times every request by matched route
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				// render now so the status below is final
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			route, method := c.Path(), c.Request().Method
			RequestDuration.WithLabelValues(route, method, status).Observe(time.Since(start).Seconds())
			HTTPRequestCounter.WithLabelValues(route, method, status).Inc()
			return nil
		}
	}
}

// ObserveDBOperation matches database.ObserveFunc
func ObserveDBOperation(operation string, duration time.Duration) {
	DBOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordProjectOperation counts create, update, delete, add_member and remove_member
func RecordProjectOperation(operation string) {
	ProjectOperationCounter.WithLabelValues(operation).Inc()
}

func RecordTaskOperation(operation string) {
	TaskOperationCounter.WithLabelValues(operation).Inc()
}
