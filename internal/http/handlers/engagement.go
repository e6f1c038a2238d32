package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/pribylovaa/blog-engagement/internal/errors"
	"github.com/pribylovaa/blog-engagement/internal/service"
	"github.com/pribylovaa/blog-engagement/internal/viewer"
)

// RecordView — GET /views/{slug}: учёт просмотра с дедупликацией по читателю.
// Без cookie читателя в ответ выдаётся новая, текущий запрос идёт по сетевым заголовкам.
func (h *Handlers) RecordView(w http.ResponseWriter, r *http.Request) {
	id := viewer.Identify(w, r, h.cookie)

	views, err := h.svc.RecordView(r.Context(), chi.URLParam(r, "slug"), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ViewsResponse{Views: views})
}

// Likes — GET /likes/{slug}.
func (h *Handlers) Likes(w http.ResponseWriter, r *http.Request) {
	likes, err := h.svc.Likes(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LikesResponse{Likes: likes})
}

// Like — POST /likes/{slug}.
func (h *Handlers) Like(w http.ResponseWriter, r *http.Request) {
	likes, err := h.svc.IncrementLike(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LikesResponse{Likes: likes})
}

// ListComments — GET /comments/{slug}.
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.ListComments(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CommentsResponse{Comments: comments})
}

// AddComment — POST /comments/{slug}.
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	var in AddCommentRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	comment, err := h.svc.AddComment(r.Context(), service.AddCommentInput{
		Slug:     chi.URLParam(r, "slug"),
		Name:     in.Name,
		Text:     in.Text,
		ParentID: in.ParentID,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AddCommentResponse{Success: true, Comment: *comment})
}
