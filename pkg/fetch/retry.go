package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/listingkit/listingkit/internal/logger"
)

// Backoff is an exponential retry policy: the delay doubles after every
// failed attempt.
type Backoff struct {
	Attempts int
	Base     time.Duration
}

// DefaultBackoff matches the engine defaults: 3 attempts starting at 1s.
func DefaultBackoff() Backoff {
	return Backoff{Attempts: 3, Base: time.Second}
}

// Do runs fn until it succeeds or the attempts are exhausted. Errors
// wrapping ErrUnsupported are permanent and stop the loop immediately.
// The wait between attempts respects context cancellation.
func (b Backoff) Do(ctx context.Context, name string, fn func() error) error {
	attempts := b.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := b.Base

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrUnsupported) {
			return lastErr
		}
		if attempt < attempts {
			logger.Debug("retrying", "op", name, "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, attempts, lastErr)
}
