package travessera

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGlobalOptions(t *testing.T) {
	retry := &RetryConfig{MaxAttempts: 2, MinWait: time.Millisecond, MaxWait: time.Second, Multiplier: 2}
	serializer := staticSerializer{contentType: "application/xml"}
	logger := NewSimpleLogger()

	tr, err := New(nil,
		WithDefaultTimeout(9*time.Second),
		WithDefaultHeaders(Headers{"X-Global": "yes"}),
		WithRetry(retry),
		WithDefaultSerializer(serializer),
		WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("Expected construction to succeed, got %v", err)
	}

	if tr.defaultTimeout != 9*time.Second {
		t.Errorf("Expected default timeout 9s, got %v", tr.defaultTimeout)
	}
	if tr.defaultHeaders["X-Global"] != "yes" {
		t.Errorf("Expected default headers to be set, got %v", tr.defaultHeaders)
	}
	if tr.retry != retry {
		t.Error("Expected the retry policy to be set")
	}
	if tr.serializer.ContentType() != "application/xml" {
		t.Errorf("Expected the serializer to be set, got %v", tr.serializer)
	}
	if tr.logger != logger {
		t.Error("Expected the logger to be set")
	}
}

func TestWithDefaultHeadersCopies(t *testing.T) {
	source := Headers{"X-Global": "yes"}
	tr, err := New(nil, WithDefaultHeaders(source))
	if err != nil {
		t.Fatalf("Expected construction to succeed, got %v", err)
	}

	source["X-Global"] = "mutated"
	source["X-Extra"] = "mutated"

	if tr.defaultHeaders["X-Global"] != "yes" {
		t.Errorf("Expected the option to copy the map, got %v", tr.defaultHeaders)
	}
	if _, ok := tr.defaultHeaders["X-Extra"]; ok {
		t.Error("Expected later source mutations to be invisible")
	}
}

func TestWithSimpleLogger(t *testing.T) {
	tr, err := New(nil, WithSimpleLogger())
	if err != nil {
		t.Fatalf("Expected construction to succeed, got %v", err)
	}

	if tr.logger == nil {
		t.Error("Expected a logger to be installed")
	}
	if tr.debug == nil || !tr.debug.Enabled {
		t.Error("Expected debug logging to be enabled")
	}
	if tr.debug.RequestIDGen == nil {
		t.Error("Expected a request ID generator")
	}
}

func TestWithDebug(t *testing.T) {
	tr, err := New(nil, WithDebug())
	if err != nil {
		t.Fatalf("Expected construction to succeed, got %v", err)
	}
	if tr.debug == nil || !tr.debug.Enabled || !tr.debug.LogRequests || !tr.debug.LogRetries {
		t.Errorf("Expected full debug defaults, got %+v", tr.debug)
	}
}

func TestWithRequestIDGenerator(t *testing.T) {
	gen := func() string { return "fixed-id" }
	tr, err := New(nil, WithRequestIDGenerator(gen))
	if err != nil {
		t.Fatalf("Expected construction to succeed, got %v", err)
	}
	if tr.debug == nil || tr.debug.RequestIDGen == nil {
		t.Fatal("Expected the generator to be installed")
	}
	if tr.debug.RequestIDGen() != "fixed-id" {
		t.Errorf("Expected the custom generator, got %q", tr.debug.RequestIDGen())
	}
}

func TestWithMetricsCollector(t *testing.T) {
	collector := &MetricsCollector{}
	tr, err := New(nil, WithMetricsCollector(collector))
	if err != nil {
		t.Fatalf("Expected construction to succeed, got %v", err)
	}
	if tr.metrics != collector {
		t.Error("Expected the collector to be installed")
	}
}

func TestEndpointOptions(t *testing.T) {
	retry := &RetryConfig{MaxAttempts: 5, MinWait: time.Millisecond, MaxWait: time.Second, Multiplier: 2}
	factory := func(args Args) Headers { return nil }
	reqTransform := func(v any) (any, error) { return v, nil }
	respTransform := func(v any) error { return nil }
	errorMap := ErrorMap{404: errors.New("missing")}
	serializer := staticSerializer{contentType: "application/xml"}

	ec := &endpointConfig{}
	options := []EndpointOption{
		WithTimeout(3 * time.Second),
		WithHeaders(Headers{"X-Endpoint": "yes"}),
		WithHeadersFactory(factory),
		WithRetryPolicy(retry),
		WithRequestTransform(reqTransform),
		WithResponseTransform(respTransform),
		WithErrorMap(errorMap),
		WithSerializer(serializer),
	}
	for _, option := range options {
		option(ec)
	}

	if ec.timeout != 3*time.Second {
		t.Errorf("Expected endpoint timeout 3s, got %v", ec.timeout)
	}
	if ec.headers["X-Endpoint"] != "yes" {
		t.Errorf("Expected endpoint headers, got %v", ec.headers)
	}
	if ec.headersFactory == nil {
		t.Error("Expected the headers factory to be set")
	}
	if ec.retry != retry {
		t.Error("Expected the retry policy to be set")
	}
	if ec.requestTransform == nil || ec.responseTransform == nil {
		t.Error("Expected both transforms to be set")
	}
	if ec.errorMap == nil {
		t.Fatal("Expected the error map to be set")
	}
	if ec.serializer.ContentType() != "application/xml" {
		t.Errorf("Expected the endpoint serializer, got %v", ec.serializer)
	}
}

func TestWithErrorMapCopies(t *testing.T) {
	missing := errors.New("missing")
	source := ErrorMap{404: missing}

	ec := &endpointConfig{}
	WithErrorMap(source)(ec)

	source[500] = errors.New("added later")
	if _, ok := ec.errorMap[500]; ok {
		t.Error("Expected the option to copy the map")
	}
	if ec.errorMap[404] != missing {
		t.Error("Expected the original mapping to survive")
	}
}

func TestValidateConfigurationCollectsProblems(t *testing.T) {
	_, err := New(nil,
		WithDefaultTimeout(-time.Second),
		WithDebugConfig(&DebugConfig{Enabled: true}),
	)
	if err == nil {
		t.Fatal("Expected construction to fail")
	}
	if !errors.Is(err, ErrConfig) {
		t.Errorf("Expected a configuration error, got %v", err)
	}

	msg := err.Error()
	if !strings.Contains(msg, "default timeout must be non-negative") {
		t.Errorf("Expected the timeout problem in the message, got %q", msg)
	}
	if !strings.Contains(msg, "RequestIDGen") {
		t.Errorf("Expected the debug problem in the message, got %q", msg)
	}
	// Both problems arrive in one error.
	if !strings.Contains(msg, "; ") {
		t.Errorf("Expected multiple problems joined together, got %q", msg)
	}
}

func TestValidateConfigurationRejectsBadRetry(t *testing.T) {
	_, err := New(nil, WithRetry(&RetryConfig{MaxAttempts: 0, Multiplier: 2}))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("Expected a configuration error, got %v", err)
	}
}
