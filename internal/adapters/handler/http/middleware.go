package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vncsmyrnk/meetmind/internal/logger"
)

// requestLogger attaches a request-scoped logger to the context and logs each
// request once it completes. Server errors log at error, client errors at
// warn, everything else at debug.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := base
			if id := middleware.GetReqID(r.Context()); id != "" {
				log = log.With(slog.String("request_id", id))
			}
			r = r.WithContext(logger.WithContext(r.Context(), log))

			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			switch {
			case status >= 500:
				log.Error("request failed", attrs...)
			case status >= 400:
				log.Warn("request rejected", attrs...)
			default:
				log.Debug("request completed", attrs...)
			}
		})
	}
}
