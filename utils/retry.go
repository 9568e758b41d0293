package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// MaxElapsed bounds the total time spent retrying. Zero means unbounded.
	MaxElapsed time.Duration
	Logger     *Logger
}

// Do executes fn with exponential back-off retry logic. It stops early when
// ctx is done or when the next wait would exceed MaxElapsed.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func(ctx context.Context) error) error {
	var lastErr error
	delay := r.BaseDelay
	start := time.Now()

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == r.MaxAttempts {
			break
		}
		if r.MaxElapsed > 0 && time.Since(start)+delay > r.MaxElapsed {
			return fmt.Errorf("%s gave up after %v (attempt %d): %w",
				operationName, time.Since(start).Round(time.Millisecond), attempt, lastErr)
		}

		if r.Logger != nil {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, r.MaxAttempts, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", operationName, ctx.Err())
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
