package handlers

import (
	"errors"
	"net/http"

	"github.com/oggyb/ideaji/internal/httpx"
	"github.com/oggyb/ideaji/internal/service/feedback"
)

// SubmitFeedback handles POST /feedback.
// Reviewing your own idea is reported as 400, not 403.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var in feedback.SubmitInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	res, err := h.Feedback.Submit(r.Context(), principal(r).UserID, in)
	if errors.Is(err, feedback.ErrOwnIdea) {
		httpx.WriteErrorStatus(w, r, h.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"feedback":      res.Feedback,
		"pointsAwarded": res.PointsAwarded,
	})
}

// ListFeedback handles GET /feedback?ideaId=&userId=&action=.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Feedback.List(r.Context(), feedback.ListInput{
		IdeaID: q.Get("ideaId"),
		UserID: q.Get("userId"),
		Action: q.Get("action"),
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
