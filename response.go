package travessera

import (
	"fmt"
	"net/http"
)

// maxErrorBodyBytes caps the response text carried on HTTP errors.
const maxErrorBodyBytes = 1000

// Response is what a Transport returns: the status, the headers and the
// fully read body. Streaming bodies are out of scope.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// handleResponse classifies a transport response and decodes it into out.
// out is nil when the caller wants no value; a *string out additionally
// receives raw non-JSON text when the endpoint declares no return payload.
//
// Order matters and is part of the contract:
//
//  1. the endpoint's error map claims its status first, 2xx included
//  2. non-2xx statuses become *HTTPError with request context
//  3. an empty body succeeds without touching the serializer
//  4. a body in a different media type than the serializer's either
//     passes through as raw text (no declared return) or fails validation
//  5. the body is deserialized, then the response transform runs on the
//     decoded value
func handleResponse(sig *signature, cfg *resolvedConfig, req *Request, resp *Response, out any) error {
	if mapped, ok := cfg.errorMap[resp.StatusCode]; ok {
		return &StatusError{StatusCode: resp.StatusCode, Method: req.Method, URL: req.URL, Err: mapped}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     req.Method,
			URL:        req.URL,
			Header:     resp.Header,
			Body:       truncate(resp.Body, maxErrorBodyBytes),
		}
	}

	if len(resp.Body) == 0 {
		return nil
	}

	contentType := resp.Header.Get("Content-Type")
	if !matchesContentType(contentType, cfg.serializer.ContentType()) {
		if sig.returns == nil {
			if target, ok := out.(*string); ok {
				*target = string(resp.Body)
			}
			return nil
		}
		return &ResponseValidationError{
			Message: fmt.Sprintf("unexpected content type %q from %s %s", contentType, req.Method, req.URL),
		}
	}

	target := out
	if target == nil {
		// Still decode so a malformed payload surfaces to the caller.
		var discard any
		target = &discard
	}
	if err := cfg.serializer.Deserialize(resp.Body, target); err != nil {
		return err
	}

	if cfg.responseTransform != nil {
		if err := cfg.responseTransform(target); err != nil {
			return &ResponseValidationError{Message: "response transform failed", Cause: err}
		}
	}
	return nil
}

func truncate(body []byte, limit int) string {
	if len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}
