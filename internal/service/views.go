package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/blog-engagement/internal/metrics"
	"github.com/pribylovaa/blog-engagement/internal/pkg/log"
	"github.com/pribylovaa/blog-engagement/internal/storage"
	"github.com/pribylovaa/blog-engagement/internal/viewer"
)

// RecordView — учёт просмотра поста не чаще одного раза на читателя за окно.
//
// Порядок:
//  1. документ поста гарантированно создаётся (ошибка -> ErrInternal);
//  2. регистрируется токен (slug, viewer) на окно cfg.Views.Window;
//  3. токен получен -> views+1; токен уже есть -> без инкремента;
//  4. любая иная ошибка дедупликации не блокирует ответ: логируется, views не меняется.
//
// Возвращает views после возможного инкремента.
func (s *Service) RecordView(ctx context.Context, slug, viewerID string) (int64, error) {
	const op = "service/views/RecordView"

	slug = strings.TrimSpace(slug)
	viewerID = strings.TrimSpace(viewerID)
	if viewerID == "" {
		viewerID = viewer.Unknown
	}

	lg := log.From(ctx).With("op", op, "slug", slug)

	if slug == "" {
		lg.Warn("invalid argument: empty slug")
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.EnsurePost(ctx, slug); err != nil {
		lg.Error("storage error on EnsurePost", "err", err)
		return 0, internalErr(ctx, op)
	}

	err := s.tokens.Acquire(ctx, slug, viewerID, s.viewWindow())
	switch {
	case err == nil:
		views, err := s.storage.IncrementViews(ctx, slug)
		if err != nil {
			lg.Error("storage error on IncrementViews", "err", err)
			return 0, internalErr(ctx, op)
		}

		s.metrics.View(metrics.ViewCounted)
		lg.Debug("view_counted", "views", views)
		return views, nil
	case errors.Is(err, storage.ErrConflict):
		s.metrics.View(metrics.ViewDuplicate)
	default:
		s.metrics.View(metrics.ViewDedupError)
		lg.Warn("view dedup failed, count unchanged", "err", err)
	}

	views, err := s.storage.Views(ctx, slug)
	if err != nil {
		lg.Error("storage error on Views", "err", err)
		return 0, internalErr(ctx, op)
	}

	return views, nil
}
