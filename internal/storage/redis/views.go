// Package redis — альтернативное хранилище токенов дедупликации просмотров (SET NX PX).
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/blog-engagement/internal/storage"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "blog:views:"

// ViewTokens хранит токены (slug, viewer) как ключи с TTL.
// Redis снимает ключ точно по истечении TTL, отдельный перехват истёкших не нужен.
type ViewTokens struct {
	rdb    *redis.Client
	prefix string
}

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "blog:views:".
func New(ctx context.Context, redisURL, prefix string) (*ViewTokens, error) {
	if prefix == "" {
		prefix = defaultPrefix
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ViewTokens{rdb: rdb, prefix: prefix}, nil
}

func (v *ViewTokens) key(slug, viewer string) string {
	return v.prefix + slug + ":" + viewer
}

// Acquire атомарно ставит ключ, только если его нет (SET NX).
// Занятый ключ — storage.ErrConflict.
func (v *ViewTokens) Acquire(ctx context.Context, slug, viewer string, ttl time.Duration) error {
	const op = "storage/redis/Acquire"

	// ttl=0 в go-redis означает «без срока жизни».
	if ttl < time.Millisecond {
		ttl = time.Millisecond
	}

	ok, err := v.rdb.SetNX(ctx, v.key(slug, viewer), 1, ttl).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	return nil
}

// Ping проверяет доступность Redis.
func (v *ViewTokens) Ping(ctx context.Context) error {
	return v.rdb.Ping(ctx).Err()
}

// Close закрывает клиент Redis.
func (v *ViewTokens) Close() error {
	return v.rdb.Close()
}
