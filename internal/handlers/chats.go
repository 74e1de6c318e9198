package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/ideaji/internal/httpx"
	"github.com/oggyb/ideaji/internal/service/chat"
)

// ListChats handles GET /chats.
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.Chats.List(r.Context(), principal(r).UserID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

// CreateChat handles POST /chats.
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var in chat.CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	c, err := h.Chats.Create(r.Context(), principal(r).UserID, in)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "chat": c})
}

// SendMessage handles POST /chats/{id}/messages.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var in chat.SendInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	msg, err := h.Chats.Send(r.Context(), principal(r).UserID, chi.URLParam(r, "id"), in)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "message": msg})
}

// ListMessages handles GET /chats/{id}/messages?limit=&before=.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	res, err := h.Chats.Messages(r.Context(), principal(r).UserID, chi.URLParam(r, "id"),
		r.URL.Query().Get("before"), queryInt(r, "limit"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
