package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultMaxRetries = 3
	baseBackoff       = 100 * time.Millisecond
)

// errPermanent marks a failure that retrying cannot fix.
var errPermanent = errors.New("permanent task queue failure")

// retry runs fn up to maxRetries times with exponential backoff starting at
// baseBackoff. Errors wrapping errPermanent stop immediately.
func retry(ctx context.Context, maxRetries int, operation, taskID string, fn func(ctx context.Context) error) error {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := range maxRetries {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			slog.DebugContext(ctx, "retrying task queue operation",
				slog.String("operation", operation),
				slog.String("task_id", taskID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, errPermanent) {
			break
		}
	}

	slog.ErrorContext(ctx, "task queue operation failed",
		slog.String("operation", operation),
		slog.String("task_id", taskID),
		slog.Int("max_retries", maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to %s after %d attempts: %w", operation, maxRetries, lastErr)
}
