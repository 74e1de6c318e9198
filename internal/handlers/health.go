package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/oggyb/ideaji/internal/httpx"
)

// Health pings the database and Redis.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"db": "ok", "redis": "ok"}
	healthy := true

	if sqlDB, err := h.AppCtx.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["db"] = "down"
		healthy = false
	}
	if rc := h.AppCtx.RedisCache; rc == nil {
		checks["redis"] = "disabled"
	} else if err := rc.Ping(ctx); err != nil {
		checks["redis"] = "down"
		healthy = false
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, code, map[string]any{"status": status, "checks": checks})
}
