package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/gravadigital/fring-api/internal/logger"
)

// ErrOffline is returned for an attempt skipped because the connectivity probe failed
var ErrOffline = errors.New("network unavailable")

// Options configures Do
type Options struct {
	// MaxRetries is the total number of attempts, including the first one
	MaxRetries int
	// BaseDelay is the wait after the first failed attempt; it doubles after each failure
	BaseDelay time.Duration
	// Online is checked before every attempt; nil means always online
	Online func(ctx context.Context) bool
	// Retryable decides whether a failed attempt may be retried; nil means IsRetryable
	Retryable func(error) bool
}

// DefaultOptions returns 3 attempts starting at a 1s delay
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
		BaseDelay:  time.Second,
	}
}

// Do runs operation until it succeeds, a non-retryable error occurs or the
// attempts are exhausted. Failed attempt n (from 0) is followed by a wait of
// BaseDelay * 2^n without jitter. The error returned is the last one observed.
func Do[T any](ctx context.Context, operation func(ctx context.Context) (T, error), opts Options) (T, error) {
	var result T

	attempts := max(opts.MaxRetries, 1)
	retryable := opts.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if attempts > 1 {
		policy = backoff.WithMaxRetries(newBackOff(opts.BaseDelay), uint64(attempts-1))
	}
	b := backoff.WithContext(policy, ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		if opts.Online != nil && !opts.Online(ctx) {
			return ErrOffline
		}

		var err error
		result, err = operation(ctx)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		logger.Get().Debug("Retrying operation", "attempt", attempt, "max_attempts", attempts, "wait", wait, "error", err)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Run is Do for operations without a result
func Run(ctx context.Context, operation func(ctx context.Context) error, opts Options) error {
	_, err := Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	}, opts)
	return err
}

func newBackOff(base time.Duration) *backoff.ExponentialBackOff {
	if base <= 0 {
		base = time.Millisecond
	}
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(base),
		backoff.WithRandomizationFactor(0),
		backoff.WithMultiplier(2),
		backoff.WithMaxInterval(time.Duration(math.MaxInt64)),
		backoff.WithMaxElapsedTime(0),
	)
}

// StatusError carries the HTTP status of a failed outbound call
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Provider, e.StatusCode)
}
