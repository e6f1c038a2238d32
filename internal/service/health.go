package service

import (
	"context"

	"github.com/pribylovaa/blog-engagement/internal/storage"
)

// Ping проверяет доступность основного хранилища.
// Ошибка возвращается без обёртки: /health отдаёт её текст клиенту.
func (s *Service) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// PingDedup проверяет доступность хранилища токенов просмотров.
// Хранилище без Ping считается доступным.
func (s *Service) PingDedup(ctx context.Context) error {
	if p, ok := s.tokens.(storage.Pinger); ok {
		return p.Ping(ctx)
	}

	return nil
}
