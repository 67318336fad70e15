package travessera

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gllona/travessera/internal/backoff"
)

// retryableStatus reports whether a status code is retried regardless of
// the configured error kinds. This covers transient statuses a server can
// recover from between attempts.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// RetryConfig controls the retry loop of an endpoint. It can be set
// globally (WithRetry), per service (ServiceConfig.Retry) or per endpoint
// (WithRetryPolicy); the nearest level wins.
//
// Invalid ranges are rejected when the config enters the library, never at
// call time.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first
	// call. 1 disables retrying.
	MaxAttempts int `validate:"gte=1"`

	// MinWait is the backoff before the first retry.
	MinWait time.Duration `validate:"gte=0"`

	// MaxWait caps the backoff growth.
	MaxWait time.Duration `validate:"gtecsfield=MinWait"`

	// Multiplier is the exponential growth factor, at least 1.
	Multiplier float64 `validate:"gte=1"`

	// RetryOn lists the error kinds that trigger a retry, matched with
	// errors.Is. Retryable HTTP statuses (408, 429, 500, 502, 503, 504)
	// trigger a retry independently of this list.
	RetryOn []error

	// BeforeRetry, when set, runs with the failed attempt number and its
	// error before each backoff wait. A panic inside it is swallowed and
	// never aborts the retry sequence.
	BeforeRetry func(attempt int, err error)
}

// DefaultRetryConfig returns the standard policy: 3 attempts, exponential
// backoff 1s..10s doubling per attempt, retrying network and server errors.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		MinWait:     time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2,
		RetryOn:     []error{ErrNetwork, ErrServer},
	}
}

// Validate checks the configured ranges and returns a *ConfigError
// describing every violation.
func (c *RetryConfig) Validate() error {
	return validateStruct(c, "retry config")
}

// clone copies the config so a resolved endpoint keeps its own slice.
func (c *RetryConfig) clone() RetryConfig {
	copied := *c
	copied.RetryOn = append([]error(nil), c.RetryOn...)
	return copied
}

// shouldRetry decides whether a failed attempt is worth repeating: either
// the error carries a retryable HTTP status, or it matches one of the
// configured kinds.
func (c *RetryConfig) shouldRetry(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && retryableStatus(httpErr.StatusCode) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && retryableStatus(statusErr.StatusCode) {
		return true
	}
	for _, kind := range c.RetryOn {
		if kind != nil && errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// wait returns the deterministic backoff after the given failed attempt:
// min(MaxWait, MinWait * Multiplier^(attempt-1)). No jitter is applied.
func (c *RetryConfig) wait(attempt int) time.Duration {
	return backoff.Exponential(attempt, c.MinWait, c.MaxWait, c.Multiplier)
}

func (c *RetryConfig) notifyBeforeRetry(attempt int, err error, logger Logger) {
	if c.BeforeRetry == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Warn("before-retry callback panicked", "attempt", attempt, "panic", r)
			}
		}
	}()
	c.BeforeRetry(attempt, err)
}

// executeWithRetry runs attempt up to cfg.MaxAttempts times. The wait
// between attempts honors ctx: cancellation during a backoff returns
// ctx.Err() immediately. onRetry, when set, observes each scheduled retry
// (failed attempt number, backoff, triggering error) for logging and
// metrics. When attempts are exhausted the last error is returned as-is.
func executeWithRetry(ctx context.Context, cfg *RetryConfig, logger Logger, onRetry func(attempt int, delay time.Duration, err error), attempt func(ctx context.Context) error) error {
	var lastErr error
	for n := 1; ; n++ {
		err := attempt(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if n >= cfg.MaxAttempts || !cfg.shouldRetry(err) {
			return lastErr
		}

		cfg.notifyBeforeRetry(n, err, logger)
		delay := cfg.wait(n)
		if onRetry != nil {
			onRetry(n, delay, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
