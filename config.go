package travessera

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// defaultTimeout applies when no level of the cascade sets one.
const defaultTimeout = 30 * time.Second

var validate = validator.New()

// Headers is a plain name/value header map used by the config cascade.
// Multi-valued headers are not part of the declarative surface; transports
// receive them as http.Header.
type Headers map[string]string

// HeadersFactory produces per-call headers from the call arguments, e.g.
// request signing or tenant headers. Factory values win over static
// configured headers on collision.
type HeadersFactory func(args Args) Headers

// RequestTransform rewrites the body value before serialization, e.g. to
// wrap it in an envelope the server expects.
type RequestTransform func(v any) (any, error)

// ResponseTransform adjusts the decoded response value in place, through
// the same pointer the caller passed. Returning an error fails the call
// with *ResponseValidationError.
type ResponseTransform func(v any) error

// ErrorMap binds HTTP status codes to caller-defined errors. A mapped
// status takes precedence over the built-in status handling for any code,
// 2xx included. The mapped error is returned wrapped in *StatusError so
// errors.Is still matches it.
type ErrorMap map[int]error

// endpointConfig accumulates per-endpoint overrides from EndpointOptions.
// Zero values mean "not set at this level".
type endpointConfig struct {
	timeout           time.Duration
	headers           Headers
	headersFactory    HeadersFactory
	retry             *RetryConfig
	requestTransform  RequestTransform
	responseTransform ResponseTransform
	errorMap          ErrorMap
	serializer        Serializer
}

// resolvedConfig is the effective configuration of one endpoint, computed
// at registration and never mutated afterwards. Maps and slices are fresh
// copies so later changes to any source layer cannot leak in.
type resolvedConfig struct {
	baseURL           string
	timeout           time.Duration
	headers           Headers
	headersFactory    HeadersFactory
	retry             RetryConfig
	serializer        Serializer
	requestTransform  RequestTransform
	responseTransform ResponseTransform
	errorMap          ErrorMap
}

// resolveConfig merges the three configuration levels: endpoint beats
// service beats global for scalars, headers union with the same
// precedence per key, the base URL comes from the service alone.
func resolveConfig(t *Travessera, svc *Service, ec *endpointConfig) (*resolvedConfig, error) {
	baseURL := strings.TrimRight(svc.baseURL, "/")
	if baseURL == "" {
		return nil, &ConfigError{Message: "service " + svc.name + " has no base URL"}
	}

	cfg := &resolvedConfig{
		baseURL:           baseURL,
		timeout:           defaultTimeout,
		headers:           mergeHeaders(t.defaultHeaders, svc.headers, ec.headers),
		headersFactory:    ec.headersFactory,
		requestTransform:  ec.requestTransform,
		responseTransform: ec.responseTransform,
		errorMap:          copyErrorMap(ec.errorMap),
	}

	switch {
	case ec.timeout > 0:
		cfg.timeout = ec.timeout
	case svc.timeout > 0:
		cfg.timeout = svc.timeout
	case t.defaultTimeout > 0:
		cfg.timeout = t.defaultTimeout
	}

	retry := t.retry
	if svc.retry != nil {
		retry = svc.retry
	}
	if ec.retry != nil {
		retry = ec.retry
	}
	if retry == nil {
		retry = DefaultRetryConfig()
	}
	cfg.retry = retry.clone()

	serializer := t.serializer
	if svc.serializer != nil {
		serializer = svc.serializer
	}
	if ec.serializer != nil {
		serializer = ec.serializer
	}
	if serializer == nil {
		serializer = JSONSerializer{}
	}
	cfg.serializer = serializer

	if err := cfg.retry.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeHeaders unions header maps; later maps override earlier ones per
// key. The result is always a fresh map, never an alias of an input.
func mergeHeaders(layers ...Headers) Headers {
	merged := Headers{}
	for _, layer := range layers {
		for name, value := range layer {
			merged[name] = value
		}
	}
	return merged
}

func copyHeaders(h Headers) Headers {
	copied := make(Headers, len(h))
	for name, value := range h {
		copied[name] = value
	}
	return copied
}

func copyErrorMap(m ErrorMap) ErrorMap {
	if m == nil {
		return nil
	}
	copied := make(ErrorMap, len(m))
	for status, err := range m {
		copied[status] = err
	}
	return copied
}

func validateStruct(v any, what string) error {
	if err := validate.Struct(v); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return &ConfigError{Message: "invalid " + what, Cause: err}
		}
		return &ConfigError{Message: "cannot validate " + what, Cause: err}
	}
	return nil
}
