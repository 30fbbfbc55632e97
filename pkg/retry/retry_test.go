package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vaidashi/backoffice-api/pkg/retry"
)

var errTransient = errors.New("transient")

func TestRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		failures    int
		shouldRetry func(error) bool
		wantCalls   int
		wantErr     bool
	}{
		{name: "succeeds first time", failures: 0, wantCalls: 1},
		{name: "succeeds after retries", failures: 2, wantCalls: 3},
		{name: "gives up after max attempts", failures: 5, wantCalls: 3, wantErr: true},
		{
			name:        "stops on non-retryable error",
			failures:    5,
			shouldRetry: func(error) bool { return false },
			wantCalls:   1,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			err := retry.Retry(context.Background(), func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return errTransient
				}
				return nil
			}, retry.RetryConfig{
				MaxAttempts:     3,
				BackoffStrategy: &retry.ConstantBackoff{Interval: time.Millisecond},
				ShouldRetry:     tt.shouldRetry,
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, errTransient)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	err := retry.Retry(ctx, func(context.Context) error {
		cancel()
		return errTransient
	}, retry.RetryConfig{MaxAttempts: 3, BackoffStrategy: &retry.ConstantBackoff{Interval: time.Hour}})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExponentialBackoff_CapsAtMax(t *testing.T) {
	t.Parallel()

	b := &retry.ExponentialBackoff{InitialInterval: time.Second, MaxInterval: 3 * time.Second, Multiplier: 2}
	assert.Equal(t, time.Second, b.NextBackoff(1))
	assert.Equal(t, 2*time.Second, b.NextBackoff(2))
	assert.Equal(t, 3*time.Second, b.NextBackoff(5))
}
