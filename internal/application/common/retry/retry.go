// Package retry runs operations again with exponential backoff while they fail transiently.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"syscall"
	"time"

	"upstreamproxy/internal/application/common/slogger"
)

// Policy defines retry behavior.
type Policy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:    3,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Operation is one attempt of a retried operation.
type Operation func(ctx context.Context) error

// Checker decides whether a failed attempt is worth repeating.
type Checker func(err error) bool

// Executor runs operations under a Policy.
type Executor struct {
	policy    Policy
	retryable Checker
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewExecutor returns an Executor. A nil checker retries only transient network failures.
func NewExecutor(policy Policy, retryable Checker) *Executor {
	if retryable == nil {
		retryable = IsTransient
	}
	return &Executor{policy: policy, retryable: retryable, sleep: sleep}
}

// Execute runs op until it succeeds, fails permanently, or the retries are used up.
func (e *Executor) Execute(ctx context.Context, op Operation) error {
	var lastErr error

	for attempt := 0; attempt <= e.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := e.delay(attempt)
			slogger.Debug(ctx, "Retrying operation after delay", slogger.Fields{
				"attempt":     attempt,
				"max_retries": e.policy.MaxRetries,
				"delay_ms":    delay.Milliseconds(),
			})
			if err := e.sleep(ctx, delay); err != nil {
				return err
			}
		}

		err := op(ctx)
		if err == nil {
			if attempt > 0 {
				slogger.Info(ctx, "Operation succeeded after retries", slogger.Fields{"attempt": attempt + 1})
			}
			return nil
		}
		lastErr = err

		if !e.retryable(err) {
			return err
		}

		slogger.Warn(ctx, "Operation failed, will retry", slogger.Fields{
			"error":       err.Error(),
			"attempt":     attempt + 1,
			"max_retries": e.policy.MaxRetries,
		})
	}

	return fmt.Errorf("operation failed after %d retries: %w", e.policy.MaxRetries, lastErr)
}

func (e *Executor) delay(attempt int) time.Duration {
	factor := e.policy.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	d := float64(e.policy.InitialDelay) * math.Pow(factor, float64(attempt-1))
	if e.policy.MaxDelay > 0 && d > float64(e.policy.MaxDelay) {
		d = float64(e.policy.MaxDelay)
	}
	return time.Duration(d)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsTransient reports whether err is a network failure that may clear up on its own.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Do runs op under policy with the default checker.
func Do(ctx context.Context, policy Policy, op Operation) error {
	return NewExecutor(policy, nil).Execute(ctx, op)
}
