// Package sentryutil wraps the small slice of sentry-go the extractor uses:
// a cloned hub per context (the CLI attaches one per run) and panic reporting
// on the process's outermost frames.
package sentryutil

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ethetl/ethetl/internal/logger"
)

// NewSentryHubContext returns a copy of ctx with a cloned hub attached, so
// concurrent workers don't stomp each other's scopes.
func NewSentryHubContext(ctx context.Context) context.Context {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return sentry.SetHubOnContext(ctx, hub.Clone())
	}
	return sentry.SetHubOnContext(ctx, sentry.CurrentHub().Clone())
}

// RecoverAndRaise reports a panic to Sentry and re-panics so the process still
// dies loudly. Deferred at the top of every mode entrypoint.
func RecoverAndRaise(ctx context.Context) {
	r := recover()
	if r == nil {
		return
	}

	hub := sentry.CurrentHub()
	if ctx != nil {
		if h := sentry.GetHubFromContext(ctx); h != nil {
			hub = h
		}
	}

	logger.For(ctx).Errorf("panic: %v", r)
	hub.Recover(r)
	hub.Flush(2 * time.Second)
	panic(r)
}

// ReportError captures err on the context's hub (or the global one) without
// interrupting control flow.
func ReportError(ctx context.Context, err error) {
	hub := sentry.CurrentHub()
	if ctx != nil {
		if h := sentry.GetHubFromContext(ctx); h != nil {
			hub = h
		}
	}
	hub.CaptureException(fmt.Errorf("captured: %w", err))
}

// Flush drains buffered events before process exit.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
