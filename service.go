package travessera

import (
	"sync"
	"time"
)

// ServiceConfig declares one remote API: where it lives and the defaults
// every endpoint registered against it inherits.
type ServiceConfig struct {
	// Name identifies the service in endpoint registrations and registry
	// keys.
	Name string `validate:"required"`

	// BaseURL is the root prepended to every endpoint path. A trailing
	// slash is trimmed at resolution time.
	BaseURL string `validate:"required,url"`

	// Timeout applies to this service's endpoints unless an endpoint
	// overrides it.
	Timeout time.Duration

	// Authentication is applied to every built request of this service.
	Authentication Authentication

	// Headers are merged over the global defaults and under endpoint
	// headers.
	Headers Headers

	// Retry overrides the global retry policy for this service.
	Retry *RetryConfig

	// Serializer overrides the global serializer for this service.
	Serializer Serializer

	// Transport replaces the default HTTP transport. Tests and custom
	// stacks inject here.
	Transport Transport
}

// Service is a configured remote API. It owns at most one transport,
// created lazily on the first call and shared by all its endpoints.
type Service struct {
	name       string
	baseURL    string
	timeout    time.Duration
	auth       Authentication
	headers    Headers
	retry      *RetryConfig
	serializer Serializer

	mu        sync.Mutex
	transport Transport
	closed    bool
}

// NewService validates the config and returns the service. Invalid configs
// (missing name or base URL, bad retry ranges) fail here, never at call
// time.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := validateStruct(cfg, "service configuration"); err != nil {
		return nil, err
	}
	return &Service{
		name:       cfg.Name,
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		auth:       cfg.Authentication,
		headers:    copyHeaders(cfg.Headers),
		retry:      cfg.Retry,
		serializer: cfg.Serializer,
		transport:  cfg.Transport,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string { return s.name }

// BaseURL returns the configured base URL.
func (s *Service) BaseURL() string { return s.baseURL }

// getTransport returns the shared transport, creating the default lazily.
// A closed service accepts no new calls.
func (s *Service) getTransport() (Transport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrServiceClosed
	}
	if s.transport == nil {
		s.transport = NewHTTPTransport()
	}
	return s.transport, nil
}

// Close marks the service closed and releases the transport. New calls
// fail with ErrServiceClosed; in-flight requests are not interrupted.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.transport != nil {
		return s.transport.Close()
	}
	return nil
}

func (s *Service) applyAuth(req *Request) {
	if s.auth != nil {
		s.auth.Apply(req)
	}
}
