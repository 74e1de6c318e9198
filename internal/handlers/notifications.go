package handlers

import (
	"fmt"
	"net/http"

	"github.com/oggyb/ideaji/internal/httpx"
	"github.com/oggyb/ideaji/internal/service/notification"
	"github.com/oggyb/ideaji/internal/utils/pagination"
)

// ListNotifications handles GET /notifications?page=&limit=&unread=true.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.ParsePage(q.Get("page"), q.Get("limit"), 20, 100)
	res, err := h.Notifications.List(r.Context(), principal(r).UserID, q.Get("unread") == "true", page)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// MarkNotificationsRead handles POST /notifications/read with {ids} or {all: true}.
func (h *Handler) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	var in notification.MarkReadInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	n, err := h.Notifications.MarkRead(r.Context(), principal(r).UserID, in)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	msg := "All notifications marked as read"
	if !in.All {
		msg = fmt.Sprintf("%d notification(s) marked as read", n)
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg, "updated": n})
}

// DeleteNotifications handles DELETE /notifications?id= or ?all=true.
func (h *Handler) DeleteNotifications(w http.ResponseWriter, r *http.Request) {
	userID := principal(r).UserID
	q := r.URL.Query()

	if q.Get("all") == "true" {
		n, err := h.Notifications.DeleteAll(r.Context(), userID)
		if err != nil {
			httpx.WriteError(w, r, h.logger, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "All notifications cleared", "deleted": n})
		return
	}

	if err := h.Notifications.Delete(r.Context(), userID, q.Get("id")); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Notification deleted"})
}
