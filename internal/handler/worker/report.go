package worker

import (
	"context"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/getsentry/sentry-go"
)

// FailureReporter receives errors that ended a record in failed status.
type FailureReporter func(ctx context.Context, err error)

// SentryReporter forwards the error to Sentry, tagged with the image id.
func SentryReporter(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if id, ok := api_context.IDFromContext(ctx); ok {
			scope.SetTag("image_id", id.String())
		}
		hub.CaptureException(err)
	})
}
