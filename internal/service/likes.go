package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pribylovaa/blog-engagement/internal/pkg/log"
)

// Likes возвращает текущее число лайков без изменения (0 для неизвестного поста).
func (s *Service) Likes(ctx context.Context, slug string) (int64, error) {
	const op = "service/likes/Likes"

	slug = strings.TrimSpace(slug)
	lg := log.From(ctx).With("op", op, "slug", slug)

	if slug == "" {
		lg.Warn("invalid argument: empty slug")
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	likes, err := s.storage.Likes(ctx, slug)
	if err != nil {
		lg.Error("storage error on Likes", "err", err)
		return 0, internalErr(ctx, op)
	}

	return likes, nil
}

// IncrementLike — безусловный атомарный инкремент лайков (документ создаётся при отсутствии).
// Дедупликации нет: каждый вызов добавляет ровно один лайк.
func (s *Service) IncrementLike(ctx context.Context, slug string) (int64, error) {
	const op = "service/likes/IncrementLike"

	slug = strings.TrimSpace(slug)
	lg := log.From(ctx).With("op", op, "slug", slug)

	if slug == "" {
		lg.Warn("invalid argument: empty slug")
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	likes, err := s.storage.IncrementLikes(ctx, slug)
	if err != nil {
		lg.Error("storage error on IncrementLikes", "err", err)
		return 0, internalErr(ctx, op)
	}

	s.metrics.Like()
	return likes, nil
}
