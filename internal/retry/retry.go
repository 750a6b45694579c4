package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
)

// Policy bounds how often a fetch is attempted.
type Policy struct {
	Attempts   int           // total attempts including the first; values < 1 mean 1
	Delay      time.Duration // pause before the second attempt
	Multiplier float64       // delay growth per retry; values <= 1 keep the delay fixed
}

// DefaultPolicy is two attempts with a fixed two second pause.
func DefaultPolicy() Policy {
	return Policy{Attempts: 2, Delay: 2 * time.Second, Multiplier: 1}
}

// delayBefore returns the pause before the given attempt (2-based).
func (p Policy) delayBefore(attempt int) time.Duration {
	delay := p.Delay
	if p.Multiplier <= 1 {
		return delay
	}
	for i := 2; i < attempt; i++ {
		delay = time.Duration(float64(delay) * p.Multiplier)
	}
	return delay
}

var _ model.PageFetcher = (*RetryFetcher)(nil)

// RetryFetcher is a decorator that retries failed fetches according to a
// Policy before delegating to the wrapped PageFetcher.
type RetryFetcher struct {
	inner  model.PageFetcher
	policy Policy
	logger *slog.Logger
}

// NewRetryFetcher wraps inner with the given retry policy.
func NewRetryFetcher(inner model.PageFetcher, policy Policy, logger *slog.Logger) *RetryFetcher {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &RetryFetcher{
		inner:  inner,
		policy: policy,
		logger: logger,
	}
}

// Fetch attempts the request up to the policy's attempt budget. Every failure
// is treated as transient (timeouts, refused connections and non-2xx
// statuses alike) unless ctx itself is done.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.policy.Attempts; attempt++ {
		if attempt > 1 {
			delay := f.policy.delayBefore(attempt)
			f.logger.Warn("retrying after fetch error",
				"url", url,
				"attempt", attempt,
				"max_attempts", f.policy.Attempts,
				"delay", delay,
				"error", lastErr,
			)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		body, err := f.inner.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", f.policy.Attempts, lastErr)
}
