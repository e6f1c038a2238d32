package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/blog-engagement/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности (живой токен просмотра уже есть).
	ErrConflict = errors.New("conflict")
	// ErrParentNotFound — указан parent_id, но такого узла в дереве нет.
	ErrParentNotFound = errors.New("parent not found")
)

// Storage описывает операции над документами вовлечённости (posts).
// Все методы принимают slug как есть; нормализация — задача сервиса.
type Storage interface {
	// EnsurePost создаёт документ с нулевыми счётчиками, если его нет.
	EnsurePost(ctx context.Context, slug string) error

	// IncrementViews атомарно увеличивает views на 1 и возвращает значение после инкремента.
	IncrementViews(ctx context.Context, slug string) (int64, error)

	// Views возвращает текущее значение views (0, если документа нет).
	Views(ctx context.Context, slug string) (int64, error)

	// Likes возвращает текущее значение likes (0, если документа нет).
	Likes(ctx context.Context, slug string) (int64, error)

	// IncrementLikes атомарно увеличивает likes на 1 (upsert) и возвращает новое значение.
	IncrementLikes(ctx context.Context, slug string) (int64, error)

	// Comments возвращает полное дерево комментариев (пустое, если документа нет).
	Comments(ctx context.Context, slug string) ([]models.Comment, error)

	// AddComment дописывает комментарий в корень (parentID == "") или в replies
	// узла parentID на любой глубине.
	// Если узел не найден — ErrParentNotFound, документ не меняется.
	AddComment(ctx context.Context, slug, parentID string, comment models.Comment) error

	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}

// ViewTokens — хранилище эфемерных токенов дедупликации просмотров.
type ViewTokens interface {
	// Acquire пытается зарегистрировать токен (slug, viewer) на ttl.
	// Если живой токен для пары уже есть — ErrConflict.
	Acquire(ctx context.Context, slug, viewer string, ttl time.Duration) error
}

// Pinger — хранилище, умеющее проверять свою доступность.
type Pinger interface {
	Ping(ctx context.Context) error
}
