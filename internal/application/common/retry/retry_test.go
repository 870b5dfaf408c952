package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func testExecutor(policy Policy) (*Executor, *[]time.Duration) {
	var delays []time.Duration
	e := NewExecutor(policy, func(err error) bool { return errors.Is(err, errTransient) })
	e.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return e, &delays
}

func TestExecutor_Execute(t *testing.T) {
	policy := Policy{MaxRetries: 3, InitialDelay: 10 * time.Millisecond, MaxDelay: 25 * time.Millisecond, BackoffFactor: 2}

	tests := []struct {
		name       string
		failures   []error
		wantCalls  int
		wantErr    error
		wantDelays []time.Duration
	}{
		{name: "first attempt succeeds", wantCalls: 1},
		{
			name:       "succeeds after retries",
			failures:   []error{errTransient, errTransient},
			wantCalls:  3,
			wantDelays: []time.Duration{10 * time.Millisecond, 20 * time.Millisecond},
		},
		{
			name:      "permanent failure stops",
			failures:  []error{errors.New("permanent")},
			wantCalls: 1,
			wantErr:   errors.New("permanent"),
		},
		{
			name:       "retries exhausted",
			failures:   []error{errTransient, errTransient, errTransient, errTransient},
			wantCalls:  4,
			wantErr:    errTransient,
			wantDelays: []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 25 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, delays := testExecutor(policy)
			calls := 0

			err := e.Execute(context.Background(), func(context.Context) error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantDelays, *delays)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr.Error())
		})
	}
}

func TestExecutor_ExhaustedWrapsLastError(t *testing.T) {
	e, _ := testExecutor(Policy{MaxRetries: 1})

	err := e.Execute(context.Background(), func(context.Context) error { return errTransient })

	require.ErrorIs(t, err, errTransient)
	assert.Contains(t, err.Error(), "after 1 retries")
}

func TestExecutor_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExecutor(Policy{MaxRetries: 2, InitialDelay: time.Hour}, func(error) bool { return true })
	err := e.Execute(ctx, func(context.Context) error { return errTransient })

	assert.ErrorIs(t, err, context.Canceled)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"connection refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"connection reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"timeout", fmt.Errorf("dial: %w", timeoutError{}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
