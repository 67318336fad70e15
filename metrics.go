package travessera

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the call pipeline. It is
// an optional collaborator: a nil collector is valid and records nothing,
// so call sites never guard. Safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	mc := &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "travessera_requests_total",
				Help: "Total number of endpoint calls made",
			},
			[]string{"service", "endpoint", "method", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "travessera_request_duration_seconds",
				Help:    "Duration of endpoint calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "endpoint", "method", "status_code"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "travessera_requests_in_flight",
				Help: "Number of endpoint calls currently in flight",
			},
			[]string{"service", "endpoint"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "travessera_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"service", "endpoint", "attempt"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "travessera_errors_total",
				Help: "Total number of failed calls by error type",
			},
			[]string{"service", "endpoint", "type"},
		),
	}
	if reg, ok := registry.(*prometheus.Registry); ok {
		mc.registry = reg
	}
	return mc
}

// RecordRequest records call count and duration.
func (mc *MetricsCollector) RecordRequest(service, endpoint, method string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	statusCodeStr := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(service, endpoint, method, statusCodeStr).Inc()
	mc.requestDuration.WithLabelValues(service, endpoint, method, statusCodeStr).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(service, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(service, endpoint).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(service, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(service, endpoint).Dec()
}

// RecordRetry increments the retry counter for an attempt.
func (mc *MetricsCollector) RecordRetry(service, endpoint string, attempt int) {
	if mc == nil {
		return
	}

	mc.retriesTotal.WithLabelValues(service, endpoint, strconv.Itoa(attempt)).Inc()
}

// RecordError increments the error counter by taxonomy type.
func (mc *MetricsCollector) RecordError(service, endpoint string, err error) {
	if mc == nil {
		return
	}

	mc.errorsTotal.WithLabelValues(service, endpoint, errorLabel(err)).Inc()
}

// GetRegistry exposes the underlying prometheus registry when the collector
// was built on one, e.g. to serve it with promhttp.HandlerFor.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	if mc == nil {
		return nil
	}
	return mc.registry
}

// errorLabel maps an error onto its taxonomy family for the type label.
func errorLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrDNS):
		return "dns"
	case errors.Is(err, ErrNetwork):
		return "connection"
	case errors.Is(err, ErrServer):
		return "server"
	case errors.Is(err, ErrClient):
		return "client"
	case errors.Is(err, ErrHTTP):
		return "http"
	case errors.Is(err, ErrConfig):
		return "config"
	}
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		return "build"
	}
	var reqErr *RequestValidationError
	if errors.As(err, &reqErr) {
		return "request_validation"
	}
	var respErr *ResponseValidationError
	if errors.As(err, &respErr) {
		return "response_validation"
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return "mapped"
	}
	return "other"
}
