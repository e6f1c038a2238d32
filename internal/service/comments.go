package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/blog-engagement/internal/metrics"
	"github.com/pribylovaa/blog-engagement/internal/models"
	"github.com/pribylovaa/blog-engagement/internal/pkg/log"
	"github.com/pribylovaa/blog-engagement/internal/storage"
)

// AddCommentInput — создание корневого комментария или ответа.
// Правила:
//   - Name и Text обязательны (после TrimSpace);
//   - пустой ParentID — корневой комментарий, иначе ответ на узел с этим id на любой глубине.
type AddCommentInput struct {
	Slug     string
	Name     string
	Text     string
	ParentID string
}

// ListComments возвращает полное дерево комментариев поста.
// Для неизвестного поста — пустой срез, не ошибка.
func (s *Service) ListComments(ctx context.Context, slug string) ([]models.Comment, error) {
	const op = "service/comments/ListComments"

	slug = strings.TrimSpace(slug)
	lg := log.From(ctx).With("op", op, "slug", slug)

	if slug == "" {
		lg.Warn("invalid argument: empty slug")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	comments, err := s.storage.Comments(ctx, slug)
	if err != nil {
		lg.Error("storage error on Comments", "err", err)
		return nil, internalErr(ctx, op)
	}

	return models.Normalize(comments), nil
}

// AddComment — бизнес-операция создания комментария.
//
// Валидация:
//   - Slug, Name и Text нормализуются (TrimSpace) и не должны быть пустыми.
//
// Поведение/ошибки:
//   - новый узел получает UUID, время сервера (UTC, миллисекунды) и пустой replies;
//   - ErrParentNotFound — ParentID указан, но такого узла в дереве нет (дерево не меняется);
//   - ErrInternal — прочие ошибки стораджа/БД/контекста.
func (s *Service) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	const op = "service/comments/AddComment"

	in.Slug = strings.TrimSpace(in.Slug)
	in.ParentID = strings.TrimSpace(in.ParentID)

	lg := log.From(ctx).With("op", op, "slug", in.Slug, "parent_id", in.ParentID)

	if in.Slug == "" {
		lg.Warn("invalid argument: empty slug")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		lg.Warn("invalid argument: empty name")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		lg.Warn("invalid argument: empty text")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	// MongoDB DateTime хранит миллисекунды.
	comm := models.Comment{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Text:    in.Text,
		Date:    models.NewTimestamp(time.Now().UTC().Truncate(time.Millisecond)),
		Replies: []models.Comment{},
	}

	if err := s.storage.AddComment(ctx, in.Slug, in.ParentID, comm); err != nil {
		if errors.Is(err, storage.ErrParentNotFound) {
			lg.Warn("parent not found")
			return nil, fmt.Errorf("%s: %w", op, ErrParentNotFound)
		}

		lg.Error("storage error on AddComment", "err", err)
		return nil, internalErr(ctx, op)
	}

	kind := metrics.CommentRoot
	if in.ParentID != "" {
		kind = metrics.CommentReply
	}
	s.metrics.Comment(kind)

	lg.Info("comment_added", "id", comm.ID, "kind", kind)
	return &comm, nil
}
