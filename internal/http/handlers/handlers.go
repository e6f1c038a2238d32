package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pribylovaa/blog-engagement/internal/config"
	"github.com/pribylovaa/blog-engagement/internal/models"
	"github.com/pribylovaa/blog-engagement/internal/posts"
	"github.com/pribylovaa/blog-engagement/internal/service"
)

// maxBodyBytes — предел тела POST-запросов.
const maxBodyBytes = 64 << 10

// Engagement — операции сервисного слоя, нужные REST-хендлерам.
type Engagement interface {
	RecordView(ctx context.Context, slug, viewerID string) (int64, error)
	Likes(ctx context.Context, slug string) (int64, error)
	IncrementLike(ctx context.Context, slug string) (int64, error)
	ListComments(ctx context.Context, slug string) ([]models.Comment, error)
	AddComment(ctx context.Context, in service.AddCommentInput) (*models.Comment, error)
	Ping(ctx context.Context) error
	PingDedup(ctx context.Context) error
}

// PostsIndex — источник /posts.json.
type PostsIndex interface {
	List(ctx context.Context) ([]posts.Entry, error)
}

// Handlers агрегирует зависимости REST-слоя.
type Handlers struct {
	svc    Engagement
	posts  PostsIndex
	cookie config.CookieConfig
	dbSet  bool
	redis  bool
}

// New создаёт хендлеры. idx может быть nil — тогда /posts.json отдаёт [].
func New(svc Engagement, idx PostsIndex, cfg *config.Config) *Handlers {
	return &Handlers{
		svc:    svc,
		posts:  idx,
		cookie: cfg.Cookie,
		dbSet:  cfg.DB.URL != "",
		redis:  cfg.Views.Dedup == config.DedupRedis,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля и лишние данные после объекта.
func decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decode body: %w: %w", service.ErrInvalidArgument, err)
	}

	if dec.More() {
		return fmt.Errorf("decode body: %w: trailing data", service.ErrInvalidArgument)
	}

	return nil
}
