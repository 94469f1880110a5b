package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/domain/common"
)

func fastOptions() Options {
	return Options{MaxRetries: 3, BaseDelay: time.Millisecond}
}

func TestDoAlwaysFailingCalledThreeTimes(t *testing.T) {
	calls := 0
	_, err := Do(t.Context(), func(context.Context) (string, error) {
		calls++
		return "", fmt.Errorf("attempt %d: %w", calls, ErrOffline)
	}, fastOptions())

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.EqualError(t, err, "attempt 3: network unavailable")
}

func TestDoSucceedsOnSecondCall(t *testing.T) {
	calls := 0
	result, err := Do(t.Context(), func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", &StatusError{Provider: "weather", StatusCode: 503}
		}
		return "ok", nil
	}, fastOptions())

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	validation := common.NewValidationError("bad input")

	err := Run(t.Context(), func(context.Context) error {
		calls++
		return validation
	}, fastOptions())

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, validation)
}

func TestDoOfflineCountsAsAttempt(t *testing.T) {
	calls, probes := 0, 0
	opts := fastOptions()
	opts.Online = func(context.Context) bool {
		probes++
		return probes > 1
	}

	err := Run(t.Context(), func(context.Context) error {
		calls++
		return &StatusError{Provider: "detection", StatusCode: 502}
	}, opts)

	require.Error(t, err)
	assert.Equal(t, 3, probes)
	assert.Equal(t, 2, calls)
}

func TestDoAllOfflineReturnsErrOffline(t *testing.T) {
	calls := 0
	opts := fastOptions()
	opts.Online = func(context.Context) bool { return false }

	err := Run(t.Context(), func(context.Context) error {
		calls++
		return nil
	}, opts)

	assert.ErrorIs(t, err, ErrOffline)
	assert.Zero(t, calls)
}

func TestDoWaitsExponentially(t *testing.T) {
	opts := Options{MaxRetries: 3, BaseDelay: 20 * time.Millisecond}
	start := time.Now()

	_ = Run(t.Context(), func(context.Context) error { return ErrOffline }, opts)

	// 20ms after the first failure, 40ms after the second, none after the last
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"offline", ErrOffline, true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"server error", &StatusError{StatusCode: 500}, true},
		{"rate limited", &StatusError{StatusCode: 429}, true},
		{"bad request", &StatusError{StatusCode: 400}, false},
		{"pg connection", &pgconn.PgError{Code: "08006"}, true},
		{"pg too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"pg admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"validation", common.NewValidationError("x"), false},
		{"forbidden", common.NewForbiddenError("x"), false},
		{"not found", common.NewNotFoundError("item", 1), false},
		{"unavailable", common.NewUnavailableError("x", errors.New("down")), true},
		{"wrapped reset", fmt.Errorf("read: %w", errors.New("connection reset by peer")), true},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestDoSingleAttempt(t *testing.T) {
	calls := 0
	err := Run(t.Context(), func(context.Context) error {
		calls++
		return ErrOffline
	}, Options{MaxRetries: 1, BaseDelay: time.Millisecond})

	assert.ErrorIs(t, err, ErrOffline)
	assert.Equal(t, 1, calls)
}
