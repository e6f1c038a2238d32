package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/blog-engagement/internal/models"
	"github.com/pribylovaa/blog-engagement/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// Acquire вставляет токен просмотра (slug, viewer) с expireAt = now + ttl.
// Уникальный индекс (slug, viewer) работает как compare-and-set: из параллельных
// вставок проходит ровно одна, остальные получают storage.ErrConflict.
//
// TTL-монитор MongoDB удаляет документы с задержкой (до ~60с), поэтому
// уже истёкший, но ещё не удалённый токен перехватывается условным $set
// по expireAt <= now. Условие перестаёт выполняться после первого успешного
// обновления, так что перехват тоже достаётся только одному запросу.
func (m *Mongo) Acquire(ctx context.Context, slug, viewer string, ttl time.Duration) error {
	const op = "storage/mongo/Acquire"

	// MongoDB DateTime хранит миллисекунды.
	now := time.Now().UTC().Truncate(time.Millisecond)
	expireAt := now.Add(ttl)

	_, err := m.views.InsertOne(ctx, models.ViewToken{
		Slug:     slug,
		Viewer:   viewer,
		ExpireAt: expireAt,
	})
	if err == nil {
		return nil
	}

	if !mongodriver.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: insert: %w", op, err)
	}

	res, err := m.views.UpdateOne(ctx,
		bson.D{
			{Key: "slug", Value: slug},
			{Key: "viewer", Value: viewer},
			{Key: "expireAt", Value: bson.D{{Key: "$lte", Value: now}}},
		},
		bson.D{{Key: "$set", Value: bson.D{{Key: "expireAt", Value: expireAt}}}},
	)
	if err != nil {
		return fmt.Errorf("%s: reclaim: %w", op, err)
	}

	if res.ModifiedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	return nil
}
