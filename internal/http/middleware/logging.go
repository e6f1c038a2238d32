package middleware

import (
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/blog-engagement/internal/pkg/log"
)

// Logging кладёт request-scoped логгер (с request_id) в контекст
// и пишет одну запись "http" на запрос.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logctx.Into(r.Context(), l)

			rid := RequestIDFrom(ctx)
			if rid == "" {
				rid = r.Header.Get(HeaderRequestID)
			}
			if rid != "" {
				ctx = logctx.With(ctx, slog.String("request_id", rid))
			}

			r = r.WithContext(ctx)

			sw := wrap(w)
			start := time.Now()

			next.ServeHTTP(sw, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.Status()),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.count),
			}

			level := slog.LevelInfo
			if sw.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			logctx.From(r.Context()).LogAttrs(r.Context(), level, "http", attrs...)
		})
	}
}
