package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/blog-engagement/internal/errors"
	"github.com/pribylovaa/blog-engagement/internal/posts"
)

// Root — GET /.
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{Message: "Blog Backend API"})
}

// Health — GET /health: конфигурация, ping MongoDB и Redis (если он хранит токены).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		OK:  true,
		Env: HealthEnv{MongoDBURI: h.dbSet},
	}

	if err := h.svc.Ping(r.Context()); err != nil {
		resp.Mongo.Error = err.Error()
	} else {
		resp.Mongo.OK = true
	}

	if h.redis {
		resp.Redis = &HealthCheck{OK: true}
		if err := h.svc.PingDedup(r.Context()); err != nil {
			resp.Redis = &HealthCheck{Error: err.Error()}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Posts — GET /posts.json: индекс markdown-постов.
func (h *Handlers) Posts(w http.ResponseWriter, r *http.Request) {
	if h.posts == nil {
		writeJSON(w, http.StatusOK, []posts.Entry{})
		return
	}

	list, err := h.posts.List(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}
