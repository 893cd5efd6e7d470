package sentryutil

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/env"
	"github.com/vivemedellin/go-vivemedellin/service/logger"
)

const errorContextName = "error context"

func init() {
	env.RegisterValidation("SENTRY_DSN", "")
	env.RegisterValidation("SENTRY_TRACES_SAMPLE_RATE", 0.2)
}

// InitSentry configures the process-wide sentry client. A missing DSN leaves
// reporting disabled, which is the expected state for local development.
func InitSentry() {
	if env.GetString("SENTRY_DSN") == "" {
		logger.For(nil).Info("sentry DSN not set, skipping sentry init")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              env.GetString("SENTRY_DSN"),
		Environment:      env.GetString("ENV"),
		TracesSampleRate: 0.2,
		Release:          env.GetString("VERSION"),
		AttachStacktrace: true,
	})
	if err != nil {
		logger.For(nil).Errorf("failed to init sentry: %s", err)
	}
}

// ReportError reports err to sentry on the hub attached to ctx, falling back
// to the global hub.
func ReportError(ctx context.Context, err error, scopeFns ...func(scope *sentry.Scope)) {
	hub := SentryHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for _, fn := range scopeFns {
			fn(scope)
		}
		hub.CaptureException(err)
	})
}

// SetErrorContext annotates the scope with the actor and subject involved in
// a failed operation.
func SetErrorContext(scope *sentry.Scope, actorID, subjectID string, action string) {
	scope.SetContext(errorContextName, sentry.Context{
		"ActorID":   actorID,
		"SubjectID": subjectID,
		"Action":    action,
	})
}

// SentryHubFromContext returns the hub stored on a gin or plain context, or
// nil when there isn't one.
func SentryHubFromContext(ctx context.Context) *sentry.Hub {
	if gc, ok := ctx.(*gin.Context); ok {
		return sentrygin.GetHubFromContext(gc)
	}

	return sentry.GetHubFromContext(ctx)
}

// RecoverAndRaise reports a panic to sentry and then re-panics so the caller's
// normal crash handling still runs.
func RecoverAndRaise(ctx context.Context) {
	if rvr := recover(); rvr != nil {
		hub := sentry.CurrentHub()
		if ctx != nil {
			if ctxHub := SentryHubFromContext(ctx); ctxHub != nil {
				hub = ctxHub
			}
		}

		if hub != nil {
			hub.Recover(rvr)
			hub.Flush(2 * time.Second)
		}

		panic(rvr)
	}
}
