package utils

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn up to maxRetries times, stopping at the first success.
// Between attempts it waits base, 2*base, 4*base... and gives up early when
// ctx is done. A maxRetries below 1 still runs fn once.
//
//	err := utils.Retry(ctx, 3, 2*time.Second, func() error {
//	    return page.Navigate(ctx, url)
//	})
func Retry(ctx context.Context, maxRetries int, base time.Duration, fn func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}

		wait := base << uint(attempt-1)
		Warn("Attempt %d/%d failed: %v — retrying in %v", attempt, maxRetries, lastErr, wait)
		if err := Sleep(ctx, wait); err != nil {
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, lastErr)
		}
	}

	if maxRetries == 1 {
		return lastErr
	}
	return fmt.Errorf("all %d attempts failed — last error: %w", maxRetries, lastErr)
}
