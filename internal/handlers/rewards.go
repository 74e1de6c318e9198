package handlers

import (
	"net/http"

	"github.com/oggyb/ideaji/internal/httpx"
	"github.com/oggyb/ideaji/internal/service/reward"
)

// ListRewards handles GET /rewards?available=true|false.
func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.Rewards.List(r.Context(), queryBool(r, "available"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rewards)
}

// CreateReward handles POST /rewards (admin only).
func (h *Handler) CreateReward(w http.ResponseWriter, r *http.Request) {
	var in reward.CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	rw, err := h.Rewards.Create(r.Context(), principal(r), in)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"message": "Reward created successfully", "reward": rw})
}

// RedeemReward handles POST /rewards/redeem.
func (h *Handler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	var in reward.RedeemInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	res, err := h.Rewards.Redeem(r.Context(), principal(r).UserID, in)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":         "Reward redeemed successfully",
		"redemption":      res.Redemption,
		"remainingPoints": res.RemainingPoints,
	})
}

// RedemptionHistory handles GET /rewards/redemptions.
func (h *Handler) RedemptionHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Rewards.History(r.Context(), principal(r).UserID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rows)
}
