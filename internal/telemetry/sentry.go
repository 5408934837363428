package telemetry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/blaisecz/sleep-coach/internal/config"
)

// InitSentry configures the global Sentry hub. Without a DSN it is a no-op
// and events are dropped.
func InitSentry(cfg *config.Config, logger *zap.Logger) (func(), error) {
	if cfg.SentryDSN == "" {
		logger.Info("sentry disabled", zap.String("reason", "SENTRY_DSN is empty"))
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.LangfuseEnv,
	}); err != nil {
		return nil, err
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// SentryReporter sends advisory failures to Sentry.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter reports through hub, or the global hub when nil.
func NewSentryReporter(hub *sentry.Hub) *SentryReporter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &SentryReporter{hub: hub}
}

func (r *SentryReporter) Report(ctx context.Context, operation string, err error) {
	hub := r.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "advisory")
		scope.SetTag("advisory.operation", operation)
	})
	hub.CaptureException(err)
}
