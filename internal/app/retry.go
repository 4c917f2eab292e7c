// internal/app/retry.go
package app

import (
	"context"
	"fmt"
	"time"

	"finops-assessment/internal/common/logger"
)

// RetryWithBackoff runs operation up to maxAttempts times, doubling the
// delay after each failure.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxAttempts; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxAttempts-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxAttempts": maxAttempts,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxAttempts, err)
}
