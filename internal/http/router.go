package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/pribylovaa/blog-engagement/internal/http/handlers"
	"github.com/pribylovaa/blog-engagement/internal/http/middleware"
	"github.com/pribylovaa/blog-engagement/internal/metrics"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
	Metrics  *metrics.Metrics
	// AllowedOrigins — CORS; пустой список трактуется как "*".
	AllowedOrigins []string
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	corsOpts := cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true, // cookie читателя нужна фронтенду на другом origin.
		MaxAge:           300,
	}
	// С credentials браузер не принимает "*": отражаем Origin запроса.
	if allowsAnyOrigin(opts.AllowedOrigins) {
		corsOpts.AllowedOrigins = nil
		corsOpts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(opts.Metrics),
		cors.Handler(corsOpts),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// allowsAnyOrigin — пустой список или "*" среди источников.
func allowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}

	for _, o := range origins {
		if o == "*" {
			return true
		}
	}

	return false
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// service
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/posts.json", h.Posts)

	// views
	r.Get("/views/{slug}", h.RecordView)

	// likes
	r.Get("/likes/{slug}", h.Likes)
	r.Post("/likes/{slug}", h.Like)

	// comments
	r.Get("/comments/{slug}", h.ListComments)
	r.Post("/comments/{slug}", h.AddComment)
}
