// Package viewer определяет анонимную идентичность читателя для дедупликации просмотров.
package viewer

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/blog-engagement/internal/config"
)

// Unknown — идентичность, когда ничего определить не удалось. Это обычный ключ дедупликации.
const Unknown = "unknown"

// Resolve возвращает идентичность по приоритету:
// cookie -> первый адрес X-Forwarded-For -> X-Real-IP -> "unknown".
func Resolve(cookie string, h http.Header) string {
	if id := strings.TrimSpace(cookie); id != "" {
		return id
	}

	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(h.Get("X-Real-IP")); ip != "" {
		return ip
	}

	return Unknown
}

// Identify возвращает идентичность читателя для текущего запроса.
// Если cookie нет, в ответ выдаётся новая (UUID, cfg.MaxAge), но текущий запрос
// всё равно идентифицируется по сетевым заголовкам: новая cookie действует со следующего.
func Identify(w http.ResponseWriter, r *http.Request, cfg config.CookieConfig) string {
	var cookie string
	if c, err := r.Cookie(cfg.Name); err == nil {
		cookie = c.Value
	}

	if strings.TrimSpace(cookie) == "" {
		issue(w, cfg)
	}

	return Resolve(cookie, r.Header)
}

func issue(w http.ResponseWriter, cfg config.CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    uuid.NewString(),
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		MaxAge:   int(cfg.MaxAge / time.Second),
		Expires:  time.Now().Add(cfg.MaxAge),
		SameSite: http.SameSiteLaxMode,
	})
}
