package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/ideaji/internal/httpx"
)

// GenerateAnalysis handles POST /ideas/{id}/ai-analysis.
func (h *Handler) GenerateAnalysis(w http.ResponseWriter, r *http.Request) {
	s, err := h.Analysis.Generate(r.Context(), principal(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"message": "AI analysis generated successfully", "aiSummary": s})
}

// GetAnalysis handles GET /ideas/{id}/ai-analysis.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	s, err := h.Analysis.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}
