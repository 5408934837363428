package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/blaisecz/sleep-coach/pkg/problem"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Recovery recovers from panics, reports them and returns a 500 error
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					hub := sentry.GetHubFromContext(r.Context())
					if hub == nil {
						hub = sentry.CurrentHub()
					}
					hub.Clone().CaptureException(fmt.Errorf("panic: %v", rec))

					problem.InternalError("An unexpected error occurred").Write(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
