// service содержит бизнес-логику engagement-сервиса: просмотры, лайки, комментарии.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/blog-engagement/internal/config"
	"github.com/pribylovaa/blog-engagement/internal/metrics"
	"github.com/pribylovaa/blog-engagement/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrParentNotFound — родитель ответа не найден в дереве.
	ErrParentNotFound = errors.New("parent not found")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInternal — внутренняя ошибка (стораж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// defaultViewWindow — окно дедупликации, если в конфиге не задано.
const defaultViewWindow = time.Hour

// Service — описывает бизнес-логику engagement-сервиса.
type Service struct {
	storage storage.Storage
	tokens  storage.ViewTokens
	metrics *metrics.Metrics
	cfg     config.Config
}

// New создает новый экземпляр Service.
// tokens — хранилище токенов дедупликации (Mongo или Redis), m может быть nil.
func New(storage storage.Storage, tokens storage.ViewTokens, m *metrics.Metrics, cfg config.Config) *Service {
	return &Service{
		storage: storage,
		tokens:  tokens,
		metrics: m,
		cfg:     cfg,
	}
}

func (s *Service) viewWindow() time.Duration {
	if s.cfg.Views.Window > 0 {
		return s.cfg.Views.Window
	}

	return defaultViewWindow
}

// internalErr оборачивает ErrInternal; при завершённом контексте добавляет
// его причину, чтобы HTTP-слой мог ответить 499/504 вместо 500.
func internalErr(ctx context.Context, op string) error {
	if cerr := ctx.Err(); cerr != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInternal, cerr)
	}

	return fmt.Errorf("%s: %w", op, ErrInternal)
}
