package travessera

import (
	"encoding/json"
	"mime"
	"strings"
)

// Serializer converts request payloads to bytes and response bytes back
// into values. Implementations report the media type they produce so the
// request builder can set Content-Type and the response handler can check
// what came back.
//
// Serializers are plain dependencies: pass one to New with
// WithDefaultSerializer or override per endpoint with WithSerializer.
// There is no process-wide registry.
type Serializer interface {
	// ContentType returns the media type written on outgoing requests,
	// e.g. "application/json".
	ContentType() string

	// Serialize encodes a request payload. Failures are reported as
	// *RequestValidationError.
	Serialize(v any) ([]byte, error)

	// Deserialize decodes a response payload into v, which must be a
	// pointer. Failures are reported as *ResponseValidationError.
	Deserialize(data []byte, v any) error
}

// JSONSerializer is the default Serializer, backed by encoding/json.
type JSONSerializer struct{}

// ContentType returns "application/json".
func (JSONSerializer) ContentType() string { return "application/json" }

// Serialize encodes v as JSON.
func (JSONSerializer) Serialize(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &RequestValidationError{Message: "cannot encode request body as JSON", Cause: err}
	}
	return data, nil
}

// Deserialize decodes JSON data into v.
func (JSONSerializer) Deserialize(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &ResponseValidationError{Message: "cannot decode JSON response", Cause: err}
	}
	return nil
}

// matchesContentType reports whether a response Content-Type header names
// the serializer's media type. Parameters like charset are ignored and the
// comparison is case-insensitive. An absent header never matches.
func matchesContentType(header, want string) bool {
	media, _, err := mime.ParseMediaType(header)
	if err != nil {
		media = header
	}
	return strings.EqualFold(strings.TrimSpace(media), want)
}
