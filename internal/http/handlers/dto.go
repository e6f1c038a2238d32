package handlers

import "github.com/pribylovaa/blog-engagement/internal/models"

// ViewsResponse — ответ GET /views/{slug}.
type ViewsResponse struct {
	Views int64 `json:"views"`
}

// LikesResponse — ответ GET/POST /likes/{slug}.
type LikesResponse struct {
	Likes int64 `json:"likes"`
}

// CommentsResponse — ответ GET /comments/{slug}: полное дерево.
type CommentsResponse struct {
	Comments []models.Comment `json:"comments"`
}

// AddCommentRequest — тело POST /comments/{slug}.
type AddCommentRequest struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	ParentID string `json:"parentId,omitempty"`
}

// AddCommentResponse — ответ POST /comments/{slug}.
type AddCommentResponse struct {
	Success bool           `json:"success"`
	Comment models.Comment `json:"comment"`
}

// HealthResponse — ответ GET /health. Сбой Mongo отражается в теле, статус всегда 200.
type HealthResponse struct {
	OK    bool        `json:"ok"`
	Env   HealthEnv   `json:"env"`
	Mongo HealthCheck `json:"mongo"`
	// Redis — только при views.dedup = redis.
	Redis *HealthCheck `json:"redis,omitempty"`
}

type HealthEnv struct {
	MongoDBURI bool `json:"MONGODB_URI"`
}

type HealthCheck struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// RootResponse — ответ GET /.
type RootResponse struct {
	Message string `json:"message"`
}
