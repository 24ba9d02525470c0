package httputil

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"
)

// Default retry policy for predict requests. Model containers can take a
// few seconds to warm up after a cold start, so the backoff window is sized
// to outlast one.
const (
	DefaultRetryAttempts = 4
	DefaultRetryDelay    = 500 * time.Millisecond
)

// RetryableError marks a predict failure as transient. Wrap network errors
// and retryable HTTP statuses (see [StatusRetryable]) with this type so that
// [Retry] attempts the request again; bad requests and shape errors stay
// unwrapped and fail fast.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// StatusRetryable reports whether an HTTP status from a prediction endpoint
// is worth retrying. Server-side failures are, except 501: an endpoint that
// does not implement predict never will.
func StatusRetryable(code int) bool {
	return code >= 500 && code != http.StatusNotImplemented
}

// Retry executes fn up to attempts times with jittered exponential backoff.
// Only errors wrapped in [RetryableError] are retried; other errors return
// immediately. The base delay doubles after each failed attempt, and each
// wait adds up to half the base delay of jitter so concurrent clients of
// the same endpoint spread out. Returns the last error when all attempts
// fail, or ctx.Err() when cancelled mid-backoff.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			wait := delay + rand.N(delay/2+1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff runs fn under the default predict retry policy:
// [DefaultRetryAttempts] attempts starting at [DefaultRetryDelay].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, DefaultRetryAttempts, DefaultRetryDelay, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
