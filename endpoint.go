package travessera

import (
	"context"
	"time"
)

// Endpoint is one registered operation: a classified signature plus the
// resolved configuration, both computed at registration and immutable
// afterwards. Endpoints are safe to call concurrently.
type Endpoint struct {
	key     string
	method  string
	path    string
	service *Service
	sig     *signature
	cfg     *resolvedConfig

	travessera *Travessera
}

// Key returns the registry key ("service.function").
func (e *Endpoint) Key() string { return e.key }

// Method returns the HTTP method.
func (e *Endpoint) Method() string { return e.method }

// Path returns the path template.
func (e *Endpoint) Path() string { return e.path }

// Call runs the endpoint pipeline: build the request from args, apply the
// service authentication, then send and classify the response under the
// retry policy. On success the response payload is decoded into out; pass
// nil when the endpoint returns nothing.
//
// A *string out additionally receives raw text when a payload-less
// endpoint answers in a non-serializer media type.
func (e *Endpoint) Call(ctx context.Context, args Args, out any) error {
	t := e.travessera
	start := time.Now()

	var requestID string
	if t.debug != nil && t.debug.Enabled && t.debug.RequestIDGen != nil {
		requestID = t.debug.RequestIDGen()
	}

	req, err := buildRequest(e.sig, e.cfg, e.method, e.path, args)
	if err != nil {
		t.metrics.RecordError(e.service.name, e.key, err)
		return err
	}
	e.service.applyAuth(req)

	transport, err := e.service.getTransport()
	if err != nil {
		t.metrics.RecordError(e.service.name, e.key, err)
		return err
	}

	if t.debug != nil && t.debug.Enabled && t.debug.LogRequests && t.logger != nil {
		t.logger.Debug("Starting request", "requestID", requestID, "method", e.method, "url", req.URL, "endpoint", e.key)
	}
	t.metrics.RecordRequestStart(e.service.name, e.key)
	defer t.metrics.RecordRequestEnd(e.service.name, e.key)

	status := 0
	onRetry := func(attempt int, delay time.Duration, attemptErr error) {
		t.metrics.RecordRetry(e.service.name, e.key, attempt)
		if t.debug != nil && t.debug.Enabled && t.debug.LogRetries && t.logger != nil {
			t.logger.Info("Scheduling retry", "requestID", requestID, "attempt", attempt+1, "maxAttempts", e.cfg.retry.MaxAttempts, "backoff", delay, "endpoint", e.key, "error", attemptErr.Error())
		}
	}
	err = executeWithRetry(ctx, &e.cfg.retry, t.logger, onRetry, func(ctx context.Context) error {
		resp, sendErr := transport.Send(ctx, req)
		if sendErr != nil {
			status = 0
			return sendErr
		}
		status = resp.StatusCode
		return handleResponse(e.sig, e.cfg, req, resp, out)
	})

	duration := time.Since(start)
	t.metrics.RecordRequest(e.service.name, e.key, e.method, status, duration)
	if err != nil {
		t.metrics.RecordError(e.service.name, e.key, err)
		if t.debug != nil && t.debug.Enabled && t.debug.LogRequests && t.logger != nil {
			t.logger.Warn("Request failed", "requestID", requestID, "endpoint", e.key, "duration", duration, "error", err.Error())
		}
		return err
	}

	if t.debug != nil && t.debug.Enabled && t.debug.LogRequests && t.logger != nil {
		t.logger.Debug("Request completed", "requestID", requestID, "endpoint", e.key, "status", status, "duration", duration)
	}
	return nil
}

// CallAsync runs Call on its own goroutine. The returned channel is
// buffered and receives exactly one value; out must not be read before
// the channel delivers.
func (e *Endpoint) CallAsync(ctx context.Context, args Args, out any) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- e.Call(ctx, args, out)
	}()
	return done
}
