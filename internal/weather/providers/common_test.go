package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	b := BackoffConfig{InitialInterval: 100 * time.Millisecond, MaxInterval: 350 * time.Millisecond}
	assert.Equal(t, 100*time.Millisecond, b.delay(0))
	assert.Equal(t, 200*time.Millisecond, b.delay(1))
	assert.Equal(t, 350*time.Millisecond, b.delay(2))

	b.MaxInterval = 0
	assert.Equal(t, 800*time.Millisecond, b.delay(3))
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport", errors.New("connection reset"), true},
		{"rate limited", &APIError{StatusCode: 429}, true},
		{"server", &APIError{StatusCode: 503}, true},
		{"bad request", &APIError{StatusCode: 400}, false},
		{"wrapped not found", &wrapErr{&APIError{StatusCode: 404}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleep(context.Background(), time.Millisecond))
}

type wrapErr struct{ err error }

func (w *wrapErr) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapErr) Unwrap() error { return w.err }
