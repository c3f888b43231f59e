// Package retry wraps single fallible network attempts with a bounded
// retry policy. On a pay-per-write network an operator leaves long uploads
// running unattended, so the controller keeps trying transient failures up
// to a fixed ceiling with a blocking (never spinning) delay, and propagates
// fatal failures immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMaxAttempts is the total attempt ceiling: one initial attempt
	// plus 49 retries.
	DefaultMaxAttempts = 50

	// DefaultDelay is the fixed wait between attempts.
	DefaultDelay = 5 * time.Second
)

// ErrExhausted is reported when every attempt failed with a retryable
// error. Match with errors.Is; the concrete *ExhaustedError carries the
// attempt count and the last underlying failure.
var ErrExhausted = errors.New("retry: attempts exhausted")

// ExhaustedError is returned after the attempt ceiling is reached.
type ExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int

	// Last is the failure from the final attempt.
	Last error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: exhausted after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap exposes the last underlying failure to errors.Is/As.
func (e *ExhaustedError) Unwrap() error { return e.Last }

// Is matches ErrExhausted.
func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// Policy controls how Do retries.
type Policy struct {
	// MaxAttempts is the total attempt ceiling. Zero means DefaultMaxAttempts.
	MaxAttempts int

	// Delay is the wait between attempts. Zero means DefaultDelay.
	Delay time.Duration

	// Retryable classifies an attempt's failure; only failures it reports
	// true for are retried. Nil retries nothing (every failure is fatal).
	Retryable func(error) bool

	// OnAttempt, if set, observes each failed attempt before the delay.
	// attempt is 1-based.
	OnAttempt func(attempt int, err error)
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p Policy) delay() time.Duration {
	if p.Delay <= 0 {
		return DefaultDelay
	}
	return p.Delay
}

// Do runs op until it succeeds, fails fatally, or the attempt ceiling is
// reached. It returns the op's value and the number of attempts made.
//
// Fatal failures (per Policy.Retryable) and context cancellation propagate
// immediately. Exhaustion returns an *ExhaustedError wrapping the last
// failure; match it with errors.Is(err, ErrExhausted).
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, int, error) {
	var zero T
	maxAttempts := p.maxAttempts()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, attempt - 1, err
		}

		v, err := op(ctx)
		if err == nil {
			return v, attempt, nil
		}
		lastErr = err

		if p.Retryable == nil || !p.Retryable(err) {
			return zero, attempt, err
		}
		if p.OnAttempt != nil {
			p.OnAttempt(attempt, err)
		}
		if attempt == maxAttempts {
			break
		}

		if err := sleep(ctx, p.delay()); err != nil {
			return zero, attempt, err
		}
	}

	return zero, maxAttempts, &ExhaustedError{Attempts: maxAttempts, Last: lastErr}
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
