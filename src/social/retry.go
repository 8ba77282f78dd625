package social

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/store"
)

// withRetry runs fn until it succeeds, fails with a non-retryable error, or
// MaxAttempts version conflicts have been seen. fn must reload every document
// it writes on each call.
func (s *Service) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	delay := s.cfg.RetryDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	backoff := retry.WithMaxRetries(uint64(s.cfg.MaxAttempts-1), retry.NewConstant(delay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if store.IsRetryable(err) {
			l := lib.Ctx(ctx)
			l.Debug().Err(err).Str("op", op).Int("attempt", attempt).Msg("version conflict, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
	if store.IsRetryable(err) {
		return fmt.Errorf("%s after %d attempts: %w", op, attempt, ErrConflict)
	}
	return err
}
