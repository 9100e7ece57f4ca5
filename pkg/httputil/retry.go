package httputil

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Backoff bounds.
const (
	maxBackoff    = 30 * time.Second
	maxRetryAfter = time.Minute
)

// RetryableError marks a transient fetch failure. After, when positive, is
// the server's Retry-After hint and replaces the computed backoff.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, fails with an error that is not a
// [RetryableError], or runs out of attempts. Waits start at delay and
// double up to a cap.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || i == attempts-1 {
			return err
		}

		wait := backoff(delay, i)
		if re.After > 0 {
			wait = min(re.After, maxRetryAfter)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	d := base << attempt
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

// retryAfter parses a Retry-After header in seconds. HTTP-date values are
// ignored and fall back to backoff.
func retryAfter(h string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
