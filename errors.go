package travessera

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for matching failure families with errors.Is.
var (
	// ErrConfig matches any configuration or registration error.
	ErrConfig = errors.New("travessera: configuration error")

	// ErrServiceClosed is returned when a call is made through a closed Service.
	ErrServiceClosed = errors.New("travessera: service closed")

	// ErrNetwork matches any transport-level failure regardless of kind.
	ErrNetwork = errors.New("travessera: network error")

	// ErrConnection matches connection-level failures (refused, reset, broken pipe).
	ErrConnection = errors.New("travessera: connection error")

	// ErrTimeout matches request timeouts and deadline expirations.
	ErrTimeout = errors.New("travessera: timeout")

	// ErrDNS matches name-resolution failures.
	ErrDNS = errors.New("travessera: dns failure")

	// ErrHTTP matches any non-2xx HTTP response.
	ErrHTTP = errors.New("travessera: http error")

	// ErrClient matches any 4xx response.
	ErrClient = errors.New("travessera: client error")

	// ErrServer matches any 5xx response.
	ErrServer = errors.New("travessera: server error")
)

// Named sentinels for common HTTP statuses. An *HTTPError with the
// corresponding status code matches these through errors.Is.
var (
	ErrBadRequest         = errors.New("travessera: bad request")
	ErrUnauthorized       = errors.New("travessera: unauthorized")
	ErrForbidden          = errors.New("travessera: forbidden")
	ErrNotFound           = errors.New("travessera: not found")
	ErrConflict           = errors.New("travessera: conflict")
	ErrInternalServer     = errors.New("travessera: internal server error")
	ErrBadGateway         = errors.New("travessera: bad gateway")
	ErrServiceUnavailable = errors.New("travessera: service unavailable")
)

func statusSentinel(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusInternalServerError:
		return ErrInternalServer
	case http.StatusBadGateway:
		return ErrBadGateway
	case http.StatusServiceUnavailable:
		return ErrServiceUnavailable
	}
	return nil
}

// Retryable reports whether an error would be retried by the default policy.
// Returns true for network errors, 5xx responses, and the retryable status
// codes 408 and 429. Returns false for other 4xx responses, validation
// errors, and configuration errors.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return retryableStatus(httpErr.StatusCode)
	}
	return false
}

// ConfigError reports an invalid configuration detected at construction or
// registration time. It is never returned from a call that reached the wire.
type ConfigError struct {
	Message string
	Cause   error
}

// Error implements error interface.
func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("travessera: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("travessera: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches ErrConfig and other *ConfigError values.
func (e *ConfigError) Is(target error) bool {
	if e == nil {
		return false
	}
	if target == ErrConfig {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok
}

// ServiceNotFoundError is returned when an endpoint references a service
// name that was never passed to New.
type ServiceNotFoundError struct {
	Service string
}

// Error implements error interface.
func (e *ServiceNotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("travessera: service %q not registered", e.Service)
}

// ClassificationError reports path placeholders that have no matching
// declared parameter. It is raised at registration, never at call time.
type ClassificationError struct {
	Path    string
	Missing []string
}

// Error implements error interface.
func (e *ClassificationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("travessera: path parameters [%s] not found in declaration for %s",
		strings.Join(e.Missing, ", "), e.Path)
}

// BuildError reports a request that could not be assembled from the call
// arguments: a missing path value, a missing required argument, or an
// argument the declaration does not know.
type BuildError struct {
	Param   string
	Message string
}

// Error implements error interface.
func (e *BuildError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("travessera: %s", e.Message)
}

// RequestValidationError reports a request payload the serializer could not
// encode. It is never retried by the default policy.
type RequestValidationError struct {
	Message string
	Cause   error
}

// Error implements error interface.
func (e *RequestValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("travessera: request validation: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("travessera: request validation: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *RequestValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches other *RequestValidationError values.
func (e *RequestValidationError) Is(target error) bool {
	if e == nil {
		return false
	}
	_, ok := target.(*RequestValidationError)
	return ok
}

// ResponseValidationError reports a response payload that could not be
// decoded or transformed into the declared return value. It is never
// retried by the default policy.
type ResponseValidationError struct {
	Message string
	Cause   error
}

// Error implements error interface.
func (e *ResponseValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("travessera: response validation: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("travessera: response validation: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *ResponseValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches other *ResponseValidationError values.
func (e *ResponseValidationError) Is(target error) bool {
	if e == nil {
		return false
	}
	_, ok := target.(*ResponseValidationError)
	return ok
}

// NetworkError reports a transport-level failure. Kind is one of
// ErrConnection, ErrTimeout or ErrDNS; errors.Is also matches the
// ErrNetwork family sentinel.
type NetworkError struct {
	Kind  error
	URL   string
	Cause error
}

// NewNetworkError builds a NetworkError of the given kind. Custom Transport
// implementations use it to surface failures in the library taxonomy.
func NewNetworkError(kind error, url string, cause error) *NetworkError {
	return &NetworkError{Kind: kind, URL: url, Cause: cause}
}

// Error implements error interface.
func (e *NetworkError) Error() string {
	if e == nil {
		return "<nil>"
	}
	kind := "network error"
	switch e.Kind {
	case ErrConnection:
		kind = "connection error"
	case ErrTimeout:
		kind = "timeout"
	case ErrDNS:
		kind = "dns failure"
	}
	if e.Cause != nil {
		return fmt.Sprintf("travessera: %s: %s: %v", kind, e.URL, e.Cause)
	}
	return fmt.Sprintf("travessera: %s: %s", kind, e.URL)
}

// Unwrap returns the transport cause.
func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches ErrNetwork and the error's own kind sentinel.
func (e *NetworkError) Is(target error) bool {
	if e == nil {
		return false
	}
	return target == ErrNetwork || target == e.Kind
}

// HTTPError reports a non-2xx response that no error map claimed. Body
// holds the response text truncated for diagnostics.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Header     http.Header
	Body       string
}

// Error implements error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	text := http.StatusText(e.StatusCode)
	if text == "" {
		text = "HTTP error"
	}
	return fmt.Sprintf("travessera: HTTP %d %s: %s %s", e.StatusCode, text, e.Method, e.URL)
}

// Is matches ErrHTTP, the ErrClient/ErrServer range sentinels, and the
// named status sentinel for the error's status code.
func (e *HTTPError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrHTTP:
		return true
	case ErrClient:
		return e.StatusCode >= 400 && e.StatusCode < 500
	case ErrServer:
		return e.StatusCode >= 500 && e.StatusCode < 600
	}
	if s := statusSentinel(e.StatusCode); s != nil {
		return target == s
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *HTTPError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	for name, values := range e.Header {
		info += fmt.Sprintf("Header %s: %s\n", name, strings.Join(values, ", "))
	}
	if e.Body != "" {
		info += fmt.Sprintf("Body: %s\n", e.Body)
	}
	return info
}

// StatusError wraps an error produced by an endpoint's error map, attaching
// the request context. Unwrap exposes the mapped error so errors.Is and
// errors.As keep matching the caller's own types.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
	Err        error
}

// Error implements error interface.
func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("travessera: %s %s returned %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
}

// Unwrap returns the mapped error.
func (e *StatusError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
