package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/pribylovaa/blog-engagement/internal/errors"
	logctx "github.com/pribylovaa/blog-engagement/internal/pkg/log"
)

// Recover перехватывает panic, конвертирует в 500/internal и пишет унифицированный ответ.
// Детали паники не утекают на клиент.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				// http.ErrAbortHandler — штатный способ оборвать ответ, не глушим.
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logctx.From(r.Context()).
					LogAttrs(r.Context(), slog.LevelError, "panic",
						slog.String("path", r.URL.Path),
						slog.Any("reason", rec),
					)
				apierrors.WriteError(w, r, fmt.Errorf("panic recovered"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
