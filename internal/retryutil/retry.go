// Package retryutil implements the retry combinator the Fetchers wrap every RPC
// call with: contract errors (apperrors.ContractError) escape immediately,
// transient errors retry indefinitely with exponential backoff (base 500ms,
// factor 2, cap 60s).
package retryutil

import (
	"context"
	"time"

	"github.com/ethetl/ethetl/internal/apperrors"
	"github.com/ethetl/ethetl/internal/logger"
)

// Backoff describes an exponential backoff schedule.
type Backoff struct {
	Base   time.Duration
	Factor float64
	Cap    time.Duration
}

// DefaultBackoff is base 500ms, factor 2, cap 60s.
var DefaultBackoff = Backoff{Base: 500 * time.Millisecond, Factor: 2, Cap: 60 * time.Second}

func (b Backoff) forAttempt(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt; i++ {
		d = time.Duration(float64(d) * b.Factor)
		if d > b.Cap {
			return b.Cap
		}
	}
	if d > b.Cap {
		d = b.Cap
	}
	return d
}

// OnError is invoked once per failed attempt, before sleeping, so callers can
// log or update metrics.
type OnError func(attempt int, err error, sleep time.Duration)

// Do retries op indefinitely on transient errors (apperrors.IsRetryable), backing
// off between attempts. Any other error (a contract error, a decode error the
// caller chose to surface, a context cancellation) returns immediately. A backoff
// whose Cap is 0 is replaced by DefaultBackoff in full (Base, Factor and Cap).
func Do[T any](ctx context.Context, op string, backoff Backoff, onError OnError, fn func(ctx context.Context) (T, error)) (T, error) {
	if backoff.Cap == 0 {
		backoff = DefaultBackoff
	}

	var zero T
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		if !apperrors.IsRetryable(err) {
			return zero, err
		}

		sleep := backoff.forAttempt(attempt)
		if onError != nil {
			onError(attempt, err, sleep)
		} else {
			logger.For(ctx).WithError(err).Warnf("%s: transient error, retrying in %s (attempt %d)", op, sleep, attempt+1)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(sleep):
		}
	}
}
