package travessera

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Request is the transport-ready form of one call. Transports compose the
// final URL from URL and Query; Body is nil when the call carries none.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers http.Header
	Body    []byte
	Timeout time.Duration
}

// buildRequest assembles a Request from the classified signature, the
// resolved config and the call arguments. It never mutates args or any
// config layer; given the same inputs it produces the same request, apart
// from whatever a caller-supplied headers factory computes.
func buildRequest(sig *signature, cfg *resolvedConfig, method, pathTemplate string, args Args) (*Request, error) {
	for name := range args {
		if _, ok := sig.index[name]; !ok {
			return nil, &BuildError{Param: name, Message: fmt.Sprintf("unknown argument %q for %s", name, sig.function)}
		}
	}

	path := pathTemplate
	query := url.Values{}
	var bodyValue any
	hasBody := false

	for _, p := range sig.params {
		value, supplied := args[p.Name]
		if !supplied {
			if !p.HasDefault {
				if p.role == rolePath {
					return nil, &BuildError{Param: p.Name, Message: fmt.Sprintf("missing value for path parameter %q", p.Name)}
				}
				return nil, &BuildError{Param: p.Name, Message: fmt.Sprintf("missing required argument %q for %s", p.Name, sig.function)}
			}
			value = p.Default
		}

		switch p.role {
		case rolePath:
			if isNilValue(value) {
				return nil, &BuildError{Param: p.Name, Message: fmt.Sprintf("path parameter %q is nil", p.Name)}
			}
			path = strings.ReplaceAll(path, "{"+p.Name+"}", formatValue(value))
		case roleQuery:
			// Nil values and nil defaults are omitted, not sent empty.
			if isNilValue(value) {
				continue
			}
			addQueryValue(query, p.Name, value)
		case roleBody:
			if !isNilValue(value) {
				bodyValue = value
				hasBody = true
			}
		}
	}

	var body []byte
	if hasBody {
		payload := bodyValue
		if cfg.requestTransform != nil {
			transformed, err := cfg.requestTransform(payload)
			if err != nil {
				return nil, &RequestValidationError{Message: "request transform failed", Cause: err}
			}
			payload = transformed
		}
		data, err := cfg.serializer.Serialize(payload)
		if err != nil {
			return nil, err
		}
		body = data
	}

	headers := http.Header{}
	for name, value := range cfg.headers {
		headers.Set(name, value)
	}
	if cfg.headersFactory != nil && len(args) > 0 {
		for name, value := range cfg.headersFactory(args) {
			headers.Set(name, value)
		}
	}
	if headers.Get("Accept") == "" {
		headers.Set("Accept", "application/json")
	}
	if hasBody {
		headers.Set("Content-Type", cfg.serializer.ContentType())
	}

	return &Request{
		Method:  method,
		URL:     cfg.baseURL + path,
		Query:   query,
		Headers: headers,
		Body:    body,
		Timeout: cfg.timeout,
	}, nil
}

// isNilValue treats untyped nil and nil-valued pointers, maps, slices and
// interfaces as the absent sentinel.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// formatValue renders a path or query value the way a caller would write
// it by hand: plain strings, decimal numbers, lowercase booleans.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprintf("%v", v)
}

// addQueryValue adds a query parameter; slices become repeated keys.
func addQueryValue(query url.Values, name string, value any) {
	switch vals := value.(type) {
	case []string:
		for _, v := range vals {
			query.Add(name, v)
		}
	case []int:
		for _, v := range vals {
			query.Add(name, strconv.Itoa(v))
		}
	case []any:
		for _, v := range vals {
			if !isNilValue(v) {
				query.Add(name, formatValue(v))
			}
		}
	default:
		query.Add(name, formatValue(value))
	}
}
