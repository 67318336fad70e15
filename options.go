package travessera

import (
	"fmt"
	"strings"
	"time"
)

// Option configures the global level of the cascade.
type Option func(*Travessera)

// WithDefaultTimeout sets the timeout used when neither service nor
// endpoint sets one.
func WithDefaultTimeout(d time.Duration) Option {
	return func(t *Travessera) {
		t.defaultTimeout = d
	}
}

// WithDefaultHeaders sets headers merged under every service and endpoint.
func WithDefaultHeaders(h Headers) Option {
	return func(t *Travessera) {
		t.defaultHeaders = copyHeaders(h)
	}
}

// WithRetry sets the global retry policy.
func WithRetry(cfg *RetryConfig) Option {
	return func(t *Travessera) {
		t.retry = cfg
	}
}

// WithDefaultSerializer sets the serializer used when neither service nor
// endpoint sets one.
func WithDefaultSerializer(s Serializer) Option {
	return func(t *Travessera) {
		t.serializer = s
	}
}

// WithLogger sets the logger used by the call pipeline.
func WithLogger(logger Logger) Option {
	return func(t *Travessera) {
		t.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger.
func WithSimpleLogger() Option {
	return func(t *Travessera) {
		if t.debug == nil {
			t.debug = DefaultDebugConfig()
		}
		t.debug.Enabled = true
		t.logger = NewSimpleLogger()
	}
}

// WithDebug enables debug logging with the default settings.
func WithDebug() Option {
	return func(t *Travessera) {
		t.debug = DefaultDebugConfig()
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(cfg *DebugConfig) Option {
	return func(t *Travessera) {
		t.debug = cfg
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(t *Travessera) {
		if t.debug == nil {
			t.debug = DefaultDebugConfig()
		}
		t.debug.RequestIDGen = gen
	}
}

// WithMetrics enables Prometheus metrics with the default collector.
func WithMetrics() Option {
	return func(t *Travessera) {
		t.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(mc *MetricsCollector) Option {
	return func(t *Travessera) {
		t.metrics = mc
	}
}

// EndpointOption configures one endpoint at registration.
type EndpointOption func(*endpointConfig)

// WithTimeout overrides the timeout for this endpoint.
func WithTimeout(d time.Duration) EndpointOption {
	return func(c *endpointConfig) {
		c.timeout = d
	}
}

// WithHeaders sets headers merged over the service and global layers.
func WithHeaders(h Headers) EndpointOption {
	return func(c *endpointConfig) {
		c.headers = copyHeaders(h)
	}
}

// WithHeadersFactory computes per-call headers from the call arguments.
// Factory headers win over static ones on collision.
func WithHeadersFactory(f HeadersFactory) EndpointOption {
	return func(c *endpointConfig) {
		c.headersFactory = f
	}
}

// WithRetryPolicy overrides the retry policy for this endpoint.
func WithRetryPolicy(cfg *RetryConfig) EndpointOption {
	return func(c *endpointConfig) {
		c.retry = cfg
	}
}

// WithRequestTransform rewrites the body value before serialization.
func WithRequestTransform(f RequestTransform) EndpointOption {
	return func(c *endpointConfig) {
		c.requestTransform = f
	}
}

// WithResponseTransform adjusts the decoded response value in place.
func WithResponseTransform(f ResponseTransform) EndpointOption {
	return func(c *endpointConfig) {
		c.responseTransform = f
	}
}

// WithErrorMap binds status codes to caller-defined errors, checked before
// the built-in status handling.
func WithErrorMap(m ErrorMap) EndpointOption {
	return func(c *endpointConfig) {
		c.errorMap = copyErrorMap(m)
	}
}

// WithSerializer overrides the serializer for this endpoint.
func WithSerializer(s Serializer) EndpointOption {
	return func(c *endpointConfig) {
		c.serializer = s
	}
}

// validateConfiguration validates the global configuration and returns an
// error describing every problem found.
func (t *Travessera) validateConfiguration() error {
	var problems []string

	if t.defaultTimeout < 0 {
		problems = append(problems, "default timeout must be non-negative")
	}
	if t.retry != nil {
		if err := t.retry.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if t.debug != nil && t.debug.Enabled && t.debug.RequestIDGen == nil {
		problems = append(problems, "debug RequestIDGen must be set when debug is enabled")
	}

	if len(problems) > 0 {
		return &ConfigError{Message: fmt.Sprintf("configuration validation failed: %s", strings.Join(problems, "; "))}
	}
	return nil
}
