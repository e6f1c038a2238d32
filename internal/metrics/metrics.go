// Package metrics — Prometheus-коллекторы engagement-сервиса.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы учёта просмотра (label result у blog_views_total).
const (
	ViewCounted    = "counted"
	ViewDuplicate  = "duplicate"
	ViewDedupError = "dedup_error"
)

// Виды комментариев (label kind у blog_comments_total).
const (
	CommentRoot  = "root"
	CommentReply = "reply"
)

// Metrics — набор коллекторов. Нулевой указатель допустим: все методы становятся no-op.
type Metrics struct {
	views       *prometheus.CounterVec
	likes       prometheus.Counter
	comments    *prometheus.CounterVec
	httpTotal   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_views_total",
			Help: "View requests by dedup outcome.",
		}, []string{"result"}),
		likes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_likes_total",
			Help: "Accepted likes.",
		}),
		comments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_comments_total",
			Help: "Created comments by kind.",
		}, []string{"kind"}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(m.views, m.likes, m.comments, m.httpTotal, m.httpLatency)

	return m
}

// View учитывает исход записи просмотра.
func (m *Metrics) View(result string) {
	if m == nil {
		return
	}
	m.views.WithLabelValues(result).Inc()
}

// Like учитывает принятый лайк.
func (m *Metrics) Like() {
	if m == nil {
		return
	}
	m.likes.Inc()
}

// Comment учитывает созданный комментарий.
func (m *Metrics) Comment(kind string) {
	if m == nil {
		return
	}
	m.comments.WithLabelValues(kind).Inc()
}

// ObserveHTTP учитывает завершённый HTTP-запрос.
// route — шаблон маршрута ("/views/{slug}"), а не фактический путь.
func (m *Metrics) ObserveHTTP(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}

	m.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}
