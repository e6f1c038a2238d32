package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pribylovaa/blog-engagement/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	postsCollection = "posts"
	viewsCollection = "views"
	defaultDBName   = "Blog"
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
// Реализует storage.Storage (posts) и storage.ViewTokens (views).
type Mongo struct {
	client *mongodriver.Client
	db     *mongodriver.Database
	posts  *mongodriver.Collection
	views  *mongodriver.Collection
}

// New подключается к MongoDB, проверяет его, подготавливает коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.DB.URL, cfg.DB.Name))

	m := &Mongo{
		client: cli,
		db:     db,
		posts:  db.Collection(postsCollection),
		views:  db.Collection(viewsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ping проверяет доступность primary.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// ensureIndexes создаёт индексы:
// - posts: уникальный slug;
// - views: уникальная пара (slug, viewer) и TTL по expireAt (expireAfterSeconds=0).
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	if _, err := m.posts.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetName("slug_unique").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("mongo ensure posts indexes: %w", err)
	}

	views := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}, {Key: "viewer", Value: 1}},
			Options: options.Index().SetName("slug_viewer_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expireAt", Value: 1}},
			Options: options.Index().SetName("ttl_expire_at").SetExpireAfterSeconds(0),
		},
	}

	if _, err := m.views.Indexes().CreateMany(ctx, views); err != nil {
		return fmt.Errorf("mongo ensure views indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если его нет — fallback, затем defaultDBName.
func databaseFromURI(uri, fallback string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	if fallback != "" {
		return fallback
	}

	return defaultDBName
}
