package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds a fixed-delay retry loop.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy is the three-attempt, one-second schedule used for speech
// recognition and per-chunk translation.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Delay: time.Second}

// RetryNotify observes a failed attempt before the loop sleeps for next.
type RetryNotify func(attempt int, err error, next time.Duration)

// Retry runs op until it succeeds, the attempts are exhausted, the context is
// cancelled, or op returns a validation or configuration error. The final
// error is returned wrapped with the attempt count so errors.Is still matches
// the underlying cause.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context, attempt int) (T, error), notify RetryNotify) (T, error) {
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := policy.Delay
	if delay < 0 {
		delay = 0
	}

	attempt := 0
	operation := func() (T, error) {
		attempt++
		value, err := op(ctx, attempt)
		if err != nil && (errors.Is(err, ErrValidation) || errors.Is(err, ErrConfiguration)) {
			return value, backoff.Permanent(err)
		}
		return value, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewConstantBackOff(delay)),
		backoff.WithMaxTries(uint(attempts)),
		// 0 disables the elapsed-time cap; long transcriptions must still get every attempt.
		backoff.WithMaxElapsedTime(0),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			notify(attempt, err, next)
		}))
	}

	value, err := backoff.Retry(ctx, operation, opts...)
	if err != nil {
		if attempt > 1 {
			return value, fmt.Errorf("failed after %d attempts: %w", attempt, err)
		}
		return value, err
	}
	return value, nil
}
