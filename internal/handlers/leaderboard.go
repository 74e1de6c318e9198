package handlers

import (
	"net/http"

	"github.com/oggyb/ideaji/internal/httpx"
)

// GetLeaderboard handles GET /leaderboard?limit=.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	top, err := h.Leaderboard.Top(r.Context(), queryInt(r, "limit"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"leaderboard": top})
}
