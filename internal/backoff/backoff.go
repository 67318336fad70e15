// Package backoff computes deterministic exponential retry delays.
package backoff

import "time"

// Exponential returns the delay after the given failed attempt (1-based):
// min * multiplier^(attempt-1), capped at max. The result is fully
// deterministic; callers wanting jitter add their own.
func Exponential(attempt int, min, max time.Duration, multiplier float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	// Prevent overflow by limiting the exponent
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(float64(min) * Pow(multiplier, attempt-1))
	if delay < 0 || delay > max {
		delay = max
	}
	return delay
}

// Pow calculates base^exponent using integer exponentiation.
func Pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
