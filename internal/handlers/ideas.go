package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/ideaji/internal/httpx"
	"github.com/oggyb/ideaji/internal/service/idea"
	"github.com/oggyb/ideaji/internal/utils/pagination"
)

const (
	defaultIdeaLimit = 10
	maxIdeaLimit     = 100
)

// CreateIdea handles POST /ideas.
func (h *Handler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	var in idea.CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	res, err := h.Ideas.Create(r.Context(), principal(r).UserID, in)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":       "Idea submitted successfully",
		"idea":          res.Idea,
		"pointsAwarded": res.PointsAwarded,
	})
}

// ListIdeas handles GET /ideas?status=&tag=&search=&mediaType=&page=&limit=.
func (h *Handler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Ideas.List(r.Context(), idea.ListInput{
		Status:    q.Get("status"),
		Tag:       q.Get("tag"),
		Search:    q.Get("search"),
		MediaType: q.Get("mediaType"),
		Page:      pagination.ParsePage(q.Get("page"), q.Get("limit"), defaultIdeaLimit, maxIdeaLimit),
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// GetIdea handles GET /ideas/{id}.
func (h *Handler) GetIdea(w http.ResponseWriter, r *http.Request) {
	d, err := h.Ideas.Get(r.Context(), principal(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

// UpdateIdea handles PATCH /ideas/{id}.
func (h *Handler) UpdateIdea(w http.ResponseWriter, r *http.Request) {
	var in idea.UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	v, err := h.Ideas.Update(r.Context(), principal(r), chi.URLParam(r, "id"), in)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

// DeleteIdea handles DELETE /ideas/{id}.
func (h *Handler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	if err := h.Ideas.Delete(r.Context(), principal(r), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"message": "Idea deleted successfully"})
}
