// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultMaxRetryDelay caps the wait between two attempts.
const DefaultMaxRetryDelay = 30 * time.Second

// Backoff retries an operation with exponentially growing delays.
type Backoff struct {
	// MaxAttempts is the total number of attempts, including the first (must be > 0)
	MaxAttempts int

	// BaseDelay is the wait after the first failure; it doubles on each retry
	BaseDelay time.Duration

	// MaxDelay caps the wait between attempts. Zero means DefaultMaxRetryDelay.
	MaxDelay time.Duration

	// Logger receives retry diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Do runs operation until it succeeds, the attempts are used up, or ctx ends.
// Returns the error from the last attempt if all attempts fail. Errors that
// are themselves context cancellations are not retried.
func (b Backoff) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	if b.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		logger.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", b.MaxAttempts, "error", lastErr)
		if attempt == b.MaxAttempts {
			break
		}

		timer := time.NewTimer(b.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// delay returns BaseDelay * 2^(attempt-1), capped at MaxDelay.
func (b Backoff) delay(attempt int) time.Duration {
	limit := b.MaxDelay
	if limit <= 0 {
		limit = DefaultMaxRetryDelay
	}
	d := b.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	return min(d, limit)
}
