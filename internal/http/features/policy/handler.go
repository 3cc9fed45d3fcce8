package policy

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"lockgate/internal/httputil"
	"lockgate/pkg/domain"
	"lockgate/pkg/lock"
)

// Handler serves the administrative policy configuration surface.
type Handler struct {
	logger *slog.Logger
	policy *lock.PolicyService
}

// NewHandler creates a new policy handler.
func NewHandler(logger *slog.Logger, policy *lock.PolicyService) *Handler {
	return &Handler{logger: logger, policy: policy}
}

// PolicyResponse is the JSON view of the effective policy.
type PolicyResponse struct {
	InactivityDays int    `json:"inactivity_days"`
	LockedMessage  string `json:"locked_message"`
}

// UpdateRequest is a partial policy update. InactivityDays accepts a JSON
// number or string; coercion happens in the policy service.
type UpdateRequest struct {
	InactivityDays any     `json:"inactivity_days"`
	LockedMessage  *string `json:"locked_message"`
}

// Get returns the effective policy, defaults applied.
// GET /v1/admin/policy
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.policy.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load policy", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load policy")
		return
	}
	httputil.JSON(w, http.StatusOK, PolicyResponse{
		InactivityDays: cfg.InactivityDays,
		LockedMessage:  cfg.LockedMessage,
	})
}

// Update applies a partial policy change; omitted fields keep prior values.
// PATCH /v1/admin/policy
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := lock.SetPolicyParams{LockedMessage: req.LockedMessage}
	switch v := req.InactivityDays.(type) {
	case nil:
	case string:
		params.InactivityDays = &v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		params.InactivityDays = &s
	default:
		httputil.Error(w, http.StatusBadRequest, "inactivity_days must be a number or string")
		return
	}

	cfg, err := h.policy.Set(r.Context(), params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidConfiguration) {
			httputil.Error(w, http.StatusBadRequest, "inactivity_days must be a positive integer")
			return
		}
		h.logger.Error("failed to update policy", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to update policy")
		return
	}

	h.logger.Info("policy updated", "inactivity_days", cfg.InactivityDays)
	httputil.JSON(w, http.StatusOK, PolicyResponse{
		InactivityDays: cfg.InactivityDays,
		LockedMessage:  cfg.LockedMessage,
	})
}
