package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/blog-engagement/internal/models"
	"github.com/pribylovaa/blog-engagement/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// counters — проекция документа только со счётчиками.
type counters struct {
	Views int64 `bson:"views"`
	Likes int64 `bson:"likes"`
}

func bySlug(slug string) bson.D {
	return bson.D{{Key: "slug", Value: slug}}
}

// onInsert — значения по умолчанию для нового документа, кроме полей из skip
// (их нельзя одновременно указать в $setOnInsert и $inc/$push).
func onInsert(skip string) bson.D {
	defaults := bson.D{
		{Key: "views", Value: int64(0)},
		{Key: "likes", Value: int64(0)},
		{Key: "comments", Value: bson.A{}},
	}

	out := make(bson.D, 0, len(defaults))
	for _, e := range defaults {
		if e.Key != skip {
			out = append(out, e)
		}
	}

	return out
}

// upsertOnce повторяет upsert один раз при duplicate key:
// две параллельные вставки одного slug упираются в уникальный индекс,
// повтор второй уже попадает в существующий документ.
func upsertOnce(fn func() error) error {
	err := fn()
	if mongodriver.IsDuplicateKeyError(err) {
		err = fn()
	}

	return err
}

// EnsurePost создаёт документ с нулевыми счётчиками, если его ещё нет.
func (m *Mongo) EnsurePost(ctx context.Context, slug string) error {
	const op = "storage/mongo/EnsurePost"

	err := upsertOnce(func() error {
		_, err := m.posts.UpdateOne(ctx, bySlug(slug),
			bson.D{{Key: "$setOnInsert", Value: onInsert("")}},
			options.Update().SetUpsert(true),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IncrementViews атомарно инкрементит views и возвращает значение после инкремента.
func (m *Mongo) IncrementViews(ctx context.Context, slug string) (int64, error) {
	const op = "storage/mongo/IncrementViews"

	out, err := m.increment(ctx, slug, "views")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return out.Views, nil
}

// IncrementLikes атомарно инкрементит likes (upsert) и возвращает новое значение.
func (m *Mongo) IncrementLikes(ctx context.Context, slug string) (int64, error) {
	const op = "storage/mongo/IncrementLikes"

	out, err := m.increment(ctx, slug, "likes")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return out.Likes, nil
}

func (m *Mongo) increment(ctx context.Context, slug, field string) (counters, error) {
	var out counters

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "views", Value: 1}, {Key: "likes", Value: 1}})

	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: field, Value: int64(1)}}},
		{Key: "$setOnInsert", Value: onInsert(field)},
	}

	err := upsertOnce(func() error {
		return m.posts.FindOneAndUpdate(ctx, bySlug(slug), update, opts).Decode(&out)
	})

	return out, err
}

// Views возвращает текущее значение views (0, если документа нет).
func (m *Mongo) Views(ctx context.Context, slug string) (int64, error) {
	const op = "storage/mongo/Views"

	out, err := m.counters(ctx, slug)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return out.Views, nil
}

// Likes возвращает текущее значение likes (0, если документа нет).
func (m *Mongo) Likes(ctx context.Context, slug string) (int64, error) {
	const op = "storage/mongo/Likes"

	out, err := m.counters(ctx, slug)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return out.Likes, nil
}

func (m *Mongo) counters(ctx context.Context, slug string) (counters, error) {
	var out counters

	opts := options.FindOne().SetProjection(bson.D{{Key: "views", Value: 1}, {Key: "likes", Value: 1}})
	if err := m.posts.FindOne(ctx, bySlug(slug), opts).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return counters{}, nil
		}

		return counters{}, err
	}

	return out, nil
}

// Comments возвращает дерево комментариев поста.
// Отсутствие документа — не ошибка: возвращается пустой срез.
func (m *Mongo) Comments(ctx context.Context, slug string) ([]models.Comment, error) {
	const op = "storage/mongo/Comments"

	post, err := m.commentsOf(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []models.Comment{}, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return models.Normalize(post.Comments), nil
}

func (m *Mongo) commentsOf(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post

	opts := options.FindOne().SetProjection(bson.D{{Key: "slug", Value: 1}, {Key: "comments", Value: 1}})
	if err := m.posts.FindOne(ctx, bySlug(slug), opts).Decode(&post); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	return &post, nil
}

// AddComment дописывает комментарий одним атомарным $push.
//   - Корень: $push в comments с upsert документа.
//   - Ответ: по текущему дереву вычисляется индексный путь до родителя,
//     затем $push в его replies с фильтром по id родителя на этом пути.
//     Массивы только дописываются, поэтому путь к существующему узлу стабилен,
//     а параллельные ответы не теряют друг друга.
func (m *Mongo) AddComment(ctx context.Context, slug, parentID string, comment models.Comment) error {
	const op = "storage/mongo/AddComment"

	if comment.Replies == nil {
		comment.Replies = []models.Comment{}
	}

	if parentID == "" {
		err := upsertOnce(func() error {
			_, err := m.posts.UpdateOne(ctx, bySlug(slug),
				bson.D{
					{Key: "$push", Value: bson.D{{Key: "comments", Value: comment}}},
					{Key: "$setOnInsert", Value: onInsert("comments")},
				},
				options.Update().SetUpsert(true),
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("%s: push root: %w", op, err)
		}

		return nil
	}

	post, err := m.commentsOf(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, storage.ErrParentNotFound)
		}

		return fmt.Errorf("%s: find post: %w", op, err)
	}

	path, ok := models.FindPath(post.Comments, parentID)
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrParentNotFound)
	}

	filter := bson.D{
		{Key: "slug", Value: slug},
		{Key: models.NodePath(path) + ".id", Value: parentID},
	}
	update := bson.D{{Key: "$push", Value: bson.D{{Key: models.RepliesPath(path), Value: comment}}}}

	res, err := m.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("%s: push reply: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrParentNotFound)
	}

	return nil
}
