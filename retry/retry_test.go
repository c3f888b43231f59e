package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient failure")
var errFatal = errors.New("fatal failure")

// fastPolicy retries errTransient with a negligible delay.
func fastPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       time.Microsecond,
		Retryable:   func(err error) bool { return errors.Is(err, errTransient) },
	}
}

func TestDo_FirstAttemptSucceeds(t *testing.T) {
	v, attempts, err := Do(context.Background(), fastPolicy(), func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, attempts)
}

func TestDo_SucceedsOnFinalAttempt(t *testing.T) {
	// Transient failures on the first 49 calls, success on the 50th.
	calls := 0
	v, attempts, err := Do(context.Background(), fastPolicy(), func(ctx context.Context) (int, error) {
		calls++
		if calls < DefaultMaxAttempts {
			return 0, errTransient
		}
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, DefaultMaxAttempts, attempts)
	assert.Equal(t, DefaultMaxAttempts, calls)
}

func TestDo_Exhausted(t *testing.T) {
	calls := 0
	_, attempts, err := Do(context.Background(), fastPolicy(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errTransient
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, errTransient) // last failure is preserved
	assert.Equal(t, DefaultMaxAttempts, attempts)
	assert.Equal(t, DefaultMaxAttempts, calls)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, DefaultMaxAttempts, exhausted.Attempts)
}

func TestDo_FatalStopsImmediately(t *testing.T) {
	calls := 0
	_, attempts, err := Do(context.Background(), fastPolicy(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errFatal
	})

	assert.ErrorIs(t, err, errFatal)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_NilRetryableNeverRetries(t *testing.T) {
	p := Policy{MaxAttempts: 10, Delay: time.Microsecond}
	calls := 0
	_, attempts, err := Do(context.Background(), p, func(ctx context.Context) (int, error) {
		calls++
		return 0, errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_OnAttemptObservesFailures(t *testing.T) {
	p := fastPolicy()
	p.MaxAttempts = 3

	var seen []int
	p.OnAttempt = func(attempt int, err error) {
		assert.ErrorIs(t, err, errTransient)
		seen = append(seen, attempt)
	}

	_, _, err := Do(context.Background(), p, func(ctx context.Context) (int, error) {
		return 0, errTransient
	})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestDo_ContextCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := Policy{
		MaxAttempts: 5,
		Delay:       10 * time.Second,
		Retryable:   func(error) bool { return true },
	}

	done := make(chan struct{})
	var err error
	var attempts int
	go func() {
		defer close(done)
		_, attempts, err = Do(ctx, p, func(ctx context.Context) (int, error) {
			return 0, errTransient
		})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, attempts, err := Do(ctx, fastPolicy(), func(ctx context.Context) (int, error) {
		calls++
		return 0, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, attempts)
	assert.Zero(t, calls)
}

func TestPolicy_Defaults(t *testing.T) {
	var p Policy
	assert.Equal(t, DefaultMaxAttempts, p.maxAttempts())
	assert.Equal(t, DefaultDelay, p.delay())
}
