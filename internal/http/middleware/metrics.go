package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/blog-engagement/internal/metrics"
)

// routeUnmatched — label route для путей без маршрута (404/405).
const routeUnmatched = "unmatched"

// Metrics пишет blog_http_requests_total и blog_http_request_duration_seconds.
// route берётся из шаблона chi, поэтому slug не раздувает кардинальность.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := wrap(w)
			start := time.Now()

			next.ServeHTTP(sw, r)

			route := routeUnmatched
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}

			m.ObserveHTTP(r.Method, route, sw.Status(), time.Since(start))
		})
	}
}
