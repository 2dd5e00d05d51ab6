package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

func TestRetryStopsAfterMaxAttempts(t *testing.T) {
	base := errors.New("upstream 503")
	calls := 0
	var notified []int

	_, err := services.Retry(context.Background(), services.RetryPolicy{MaxAttempts: 3}, func(context.Context, int) (string, error) {
		calls++
		return "", base
	}, func(attempt int, err error, next time.Duration) {
		notified = append(notified, attempt)
	})
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected final error to wrap base, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("expected attempt count in error, got %v", err)
	}
	if len(notified) != 2 || notified[0] != 1 || notified[1] != 2 {
		t.Fatalf("expected notifications for attempts 1 and 2, got %v", notified)
	}
}

func TestRetryReturnsFirstSuccess(t *testing.T) {
	calls := 0
	value, err := services.Retry(context.Background(), services.RetryPolicy{MaxAttempts: 3}, func(_ context.Context, attempt int) (int, error) {
		calls++
		if attempt < 2 {
			return 0, errors.New("flaky")
		}
		return 42, nil
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 42 || calls != 2 {
		t.Fatalf("expected value 42 after 2 calls, got %d after %d", value, calls)
	}
}

func TestRetryDoesNotRepeatValidationErrors(t *testing.T) {
	calls := 0
	_, err := services.Retry(context.Background(), services.RetryPolicy{MaxAttempts: 3}, func(context.Context, int) (struct{}, error) {
		calls++
		return struct{}{}, services.Wrap(services.ErrValidation, "speech", "transcribe", "unsupported file", nil)
	}, nil)
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := services.Retry(ctx, services.RetryPolicy{MaxAttempts: 5, Delay: time.Hour}, func(context.Context, int) (int, error) {
		calls++
		cancel()
		return 0, errors.New("boom")
	}, nil)
	if calls != 1 {
		t.Fatalf("expected retry loop to stop after cancellation, got %d calls", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRetryDefaultsToSingleAttempt(t *testing.T) {
	calls := 0
	_, err := services.Retry(context.Background(), services.RetryPolicy{}, func(context.Context, int) (int, error) {
		calls++
		return 0, errors.New("nope")
	}, nil)
	if err == nil || calls != 1 {
		t.Fatalf("expected one failing call, got %d calls err=%v", calls, err)
	}
}
