package travessera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// Transport sends a built request and returns the raw response. It is the
// only place the library touches the network; everything before and after
// is pure. Services create the default HTTP transport lazily, or take a
// custom one through ServiceConfig.Transport (tests inject here).
type Transport interface {
	// Send performs one request/response exchange. Failures must be
	// reported through the library taxonomy (*NetworkError kinds).
	Send(ctx context.Context, req *Request) (*Response, error)

	// Close releases connection resources. In-flight requests are not
	// interrupted.
	Close() error
}

// HTTPTransport is the default Transport on top of net/http. The zero
// value is not usable; construct with NewHTTPTransport.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport returns a transport backed by a dedicated http.Client.
// Per-request timeouts come from the resolved config, so the client itself
// carries none.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{client: &http.Client{}}
}

// NewHTTPTransportWithClient wraps an existing http.Client, e.g. one with
// a custom TLS setup or proxy.
func NewHTTPTransportWithClient(client *http.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Send performs the exchange and reads the whole body. Transport failures
// map onto the network taxonomy: deadline expirations and net timeouts to
// ErrTimeout, resolution failures to ErrDNS, everything else to
// ErrConnection.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	url := req.URL
	if len(req.Query) > 0 {
		url += "?" + req.Query.Encode()
	}
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, &BuildError{Message: fmt.Sprintf("cannot create request for %s: %v", url, err)}
	}
	if req.Headers != nil {
		httpReq.Header = req.Headers.Clone()
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(ctx, req.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapTransportError(ctx, req.URL, err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

func mapTransportError(ctx context.Context, url string, err error) error {
	// A canceled context is the caller's doing, not a network failure.
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewNetworkError(ErrTimeout, url, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NewNetworkError(ErrDNS, url, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewNetworkError(ErrTimeout, url, err)
	}
	return NewNetworkError(ErrConnection, url, err)
}
