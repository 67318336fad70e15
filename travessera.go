package travessera

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Travessera holds the registered services, the endpoint registry and the
// global level of the config cascade. It is safe for concurrent use; all
// per-call state is local to the call.
type Travessera struct {
	services map[string]*Service

	defaultTimeout time.Duration
	defaultHeaders Headers
	retry          *RetryConfig
	serializer     Serializer

	metrics *MetricsCollector
	debug   *DebugConfig
	logger  Logger

	mu        sync.RWMutex
	endpoints map[string]*Endpoint
}

// New wires the given services together with the global defaults set by
// the options. Invalid configuration (duplicate service names, bad retry
// ranges) fails construction.
func New(services []*Service, options ...Option) (*Travessera, error) {
	t := &Travessera{
		services:  make(map[string]*Service, len(services)),
		endpoints: make(map[string]*Endpoint),
	}
	for _, svc := range services {
		if svc == nil {
			return nil, &ConfigError{Message: "nil service"}
		}
		if _, dup := t.services[svc.name]; dup {
			return nil, &ConfigError{Message: fmt.Sprintf("service %q configured twice", svc.name)}
		}
		t.services[svc.name] = svc
	}

	for _, option := range options {
		option(t)
	}

	if err := t.validateConfiguration(); err != nil {
		return nil, err
	}
	return t, nil
}

// Definition binds a Function to a service, an HTTP method and a path
// template with {name} placeholders.
type Definition struct {
	Service  string `validate:"required"`
	Method   string `validate:"required,oneof=GET POST PUT DELETE PATCH HEAD OPTIONS"`
	Path     string `validate:"required,startswith=/"`
	Function Function
}

// Register classifies the declaration, resolves the endpoint's effective
// configuration and stores the endpoint under "<service>.<function>".
// All of that happens here, exactly once; calls replay the stored result.
// Registering the same key again replaces the previous endpoint; calls
// already running keep the endpoint they started with.
func (t *Travessera) Register(def Definition, options ...EndpointOption) (*Endpoint, error) {
	def.Method = strings.ToUpper(def.Method)
	if err := validateStruct(def, "endpoint definition"); err != nil {
		return nil, err
	}
	if def.Function.Name == "" {
		return nil, &ConfigError{Message: fmt.Sprintf("endpoint %s %s declares no function name", def.Method, def.Path)}
	}

	svc, ok := t.services[def.Service]
	if !ok {
		return nil, &ServiceNotFoundError{Service: def.Service}
	}

	sig, err := classifySignature(def.Function, def.Method, def.Path)
	if err != nil {
		return nil, err
	}

	ec := &endpointConfig{}
	for _, option := range options {
		option(ec)
	}
	cfg, err := resolveConfig(t, svc, ec)
	if err != nil {
		return nil, err
	}

	ep := &Endpoint{
		key:        def.Service + "." + def.Function.Name,
		method:     def.Method,
		path:       def.Path,
		service:    svc,
		sig:        sig,
		cfg:        cfg,
		travessera: t,
	}
	t.mu.Lock()
	t.endpoints[ep.key] = ep
	t.mu.Unlock()
	return ep, nil
}

// Get registers a GET endpoint on the service.
func (t *Travessera) Get(service, path string, fn Function, options ...EndpointOption) (*Endpoint, error) {
	return t.Register(Definition{Service: service, Method: http.MethodGet, Path: path, Function: fn}, options...)
}

// Post registers a POST endpoint on the service.
func (t *Travessera) Post(service, path string, fn Function, options ...EndpointOption) (*Endpoint, error) {
	return t.Register(Definition{Service: service, Method: http.MethodPost, Path: path, Function: fn}, options...)
}

// Put registers a PUT endpoint on the service.
func (t *Travessera) Put(service, path string, fn Function, options ...EndpointOption) (*Endpoint, error) {
	return t.Register(Definition{Service: service, Method: http.MethodPut, Path: path, Function: fn}, options...)
}

// Delete registers a DELETE endpoint on the service.
func (t *Travessera) Delete(service, path string, fn Function, options ...EndpointOption) (*Endpoint, error) {
	return t.Register(Definition{Service: service, Method: http.MethodDelete, Path: path, Function: fn}, options...)
}

// Patch registers a PATCH endpoint on the service.
func (t *Travessera) Patch(service, path string, fn Function, options ...EndpointOption) (*Endpoint, error) {
	return t.Register(Definition{Service: service, Method: http.MethodPatch, Path: path, Function: fn}, options...)
}

// Endpoint returns the endpoint registered under key ("service.function").
func (t *Travessera) Endpoint(key string) (*Endpoint, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ep, ok := t.endpoints[key]
	return ep, ok
}

// Service returns a configured service by name.
func (t *Travessera) Service(name string) (*Service, bool) {
	svc, ok := t.services[name]
	return svc, ok
}

// Call looks up the endpoint registered under key and calls it.
func (t *Travessera) Call(ctx context.Context, key string, args Args, out any) error {
	ep, ok := t.Endpoint(key)
	if !ok {
		return &ConfigError{Message: fmt.Sprintf("no endpoint registered under %q", key)}
	}
	return ep.Call(ctx, args, out)
}

// CallAsync looks up the endpoint registered under key and calls it on its
// own goroutine.
func (t *Travessera) CallAsync(ctx context.Context, key string, args Args, out any) <-chan error {
	ep, ok := t.Endpoint(key)
	if !ok {
		done := make(chan error, 1)
		done <- &ConfigError{Message: fmt.Sprintf("no endpoint registered under %q", key)}
		return done
	}
	return ep.CallAsync(ctx, args, out)
}

// Close closes every service. All services are closed even when one of
// them fails; the first failure is returned.
func (t *Travessera) Close() error {
	var firstErr error
	for _, svc := range t.services {
		if err := svc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
