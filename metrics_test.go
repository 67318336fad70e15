package travessera

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewMetricsCollectorWithRegistry(registry)

	if collector == nil {
		t.Fatal("NewMetricsCollectorWithRegistry() returned nil")
	}
	if collector.requestsTotal == nil {
		t.Error("requestsTotal metric not initialized")
	}
	if collector.requestDuration == nil {
		t.Error("requestDuration metric not initialized")
	}
	if collector.requestsInFlight == nil {
		t.Error("requestsInFlight metric not initialized")
	}
	if collector.retriesTotal == nil {
		t.Error("retriesTotal metric not initialized")
	}
	if collector.errorsTotal == nil {
		t.Error("errorsTotal metric not initialized")
	}
}

func TestGetRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewMetricsCollectorWithRegistry(registry)

	if collector.GetRegistry() != registry {
		t.Error("GetRegistry() returned wrong registry")
	}
}

func TestRecordRequest(t *testing.T) {
	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())

	collector.RecordRequest("users", "users.get_user", "GET", 200, 50*time.Millisecond)
	collector.RecordRequest("users", "users.get_user", "GET", 200, 70*time.Millisecond)
	collector.RecordRequest("users", "users.get_user", "GET", 404, 10*time.Millisecond)

	if got := testutil.ToFloat64(collector.requestsTotal.WithLabelValues("users", "users.get_user", "GET", "200")); got != 2 {
		t.Errorf("Expected 2 successful requests, got %v", got)
	}
	if got := testutil.ToFloat64(collector.requestsTotal.WithLabelValues("users", "users.get_user", "GET", "404")); got != 1 {
		t.Errorf("Expected 1 failed request, got %v", got)
	}
}

func TestRecordRequestInFlight(t *testing.T) {
	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())

	collector.RecordRequestStart("users", "users.get_user")
	collector.RecordRequestStart("users", "users.get_user")
	if got := testutil.ToFloat64(collector.requestsInFlight.WithLabelValues("users", "users.get_user")); got != 2 {
		t.Errorf("Expected 2 in flight, got %v", got)
	}

	collector.RecordRequestEnd("users", "users.get_user")
	if got := testutil.ToFloat64(collector.requestsInFlight.WithLabelValues("users", "users.get_user")); got != 1 {
		t.Errorf("Expected 1 in flight, got %v", got)
	}
}

func TestRecordRetry(t *testing.T) {
	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())

	collector.RecordRetry("users", "users.get_user", 1)
	collector.RecordRetry("users", "users.get_user", 1)
	collector.RecordRetry("users", "users.get_user", 2)

	if got := testutil.ToFloat64(collector.retriesTotal.WithLabelValues("users", "users.get_user", "1")); got != 2 {
		t.Errorf("Expected 2 first retries, got %v", got)
	}
	if got := testutil.ToFloat64(collector.retriesTotal.WithLabelValues("users", "users.get_user", "2")); got != 1 {
		t.Errorf("Expected 1 second retry, got %v", got)
	}
}

func TestRecordError(t *testing.T) {
	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())

	collector.RecordError("users", "users.get_user", NewNetworkError(ErrTimeout, "https://api.example.com", nil))
	collector.RecordError("users", "users.get_user", &HTTPError{StatusCode: 500})
	collector.RecordError("users", "users.get_user", &HTTPError{StatusCode: 404})
	collector.RecordError("users", "users.get_user", &BuildError{Param: "id", Message: "missing"})

	if got := testutil.ToFloat64(collector.errorsTotal.WithLabelValues("users", "users.get_user", "timeout")); got != 1 {
		t.Errorf("Expected 1 timeout error, got %v", got)
	}
	if got := testutil.ToFloat64(collector.errorsTotal.WithLabelValues("users", "users.get_user", "server")); got != 1 {
		t.Errorf("Expected 1 server error, got %v", got)
	}
	if got := testutil.ToFloat64(collector.errorsTotal.WithLabelValues("users", "users.get_user", "client")); got != 1 {
		t.Errorf("Expected 1 client error, got %v", got)
	}
	if got := testutil.ToFloat64(collector.errorsTotal.WithLabelValues("users", "users.get_user", "build")); got != 1 {
		t.Errorf("Expected 1 build error, got %v", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var collector *MetricsCollector

	// None of these may panic.
	collector.RecordRequest("users", "users.get_user", "GET", 200, time.Millisecond)
	collector.RecordRequestStart("users", "users.get_user")
	collector.RecordRequestEnd("users", "users.get_user")
	collector.RecordRetry("users", "users.get_user", 1)
	collector.RecordError("users", "users.get_user", errors.New("boom"))

	if collector.GetRegistry() != nil {
		t.Error("Expected a nil collector to expose no registry")
	}
}

func TestErrorLabel(t *testing.T) {
	testCases := []struct {
		err      error
		expected string
	}{
		{nil, "none"},
		{NewNetworkError(ErrTimeout, "https://x", nil), "timeout"},
		{NewNetworkError(ErrDNS, "https://x", nil), "dns"},
		{NewNetworkError(ErrConnection, "https://x", nil), "connection"},
		{&HTTPError{StatusCode: 500}, "server"},
		{&HTTPError{StatusCode: 404}, "client"},
		{&HTTPError{StatusCode: 301}, "http"},
		{&ConfigError{Message: "x"}, "config"},
		{&BuildError{Message: "x"}, "build"},
		{&RequestValidationError{Message: "x"}, "request_validation"},
		{&ResponseValidationError{Message: "x"}, "response_validation"},
		{&StatusError{StatusCode: 404, Err: errors.New("mapped")}, "mapped"},
		{errors.New("anything else"), "other"},
	}

	for _, tc := range testCases {
		if got := errorLabel(tc.err); got != tc.expected {
			t.Errorf("errorLabel(%v) = %q, expected %q", tc.err, got, tc.expected)
		}
	}
}
