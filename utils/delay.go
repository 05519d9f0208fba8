package utils

import (
	"context"
	"math/rand"
	"time"
)

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RandomDelay sleeps for a random duration between min and max.
// Fixed gaps between requests are an easy bot signature; jitter is not.
func RandomDelay(ctx context.Context, min, max time.Duration) error {
	return Sleep(ctx, Jitter(min, max))
}

// Jitter picks a duration in [min, max). A non-positive range yields min.
func Jitter(min, max time.Duration) time.Duration {
	diff := max - min
	if diff <= 0 {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(diff)))
}
