package gate

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"lockgate/internal/httputil"
	"lockgate/pkg/lock"
)

// Handler handles the authentication-pipeline hooks: the allow/deny gate and
// the login-success notification.
type Handler struct {
	logger    *slog.Logger
	evaluator *lock.Evaluator
}

// NewHandler creates a new gate handler.
func NewHandler(logger *slog.Logger, evaluator *lock.Evaluator) *Handler {
	return &Handler{logger: logger, evaluator: evaluator}
}

// GateRequest identifies the account whose login attempt is being gated.
type GateRequest struct {
	AccountID string `json:"account_id"`
}

// GateResponse carries the verdict back to the authentication pipeline.
type GateResponse struct {
	Allow   bool   `json:"allow"`
	Message string `json:"message,omitempty"`
}

// Evaluate decides whether an already-password-verified login may proceed.
// POST /v1/auth/gate
//
// A storage failure denies: failing open would defeat the lock policy.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req GateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AccountID == "" {
		httputil.Error(w, http.StatusBadRequest, "account_id is required")
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid account_id")
		return
	}

	verdict, err := h.evaluator.Evaluate(r.Context(), accountID)
	if err != nil {
		h.logger.Error("evaluation failed, denying", "account_id", accountID, "error", err)
		httputil.JSON(w, http.StatusServiceUnavailable, GateResponse{
			Allow:   false,
			Message: "authentication is temporarily unavailable",
		})
		return
	}

	if !verdict.Allow {
		if verdict.Latched {
			h.logger.Info("account latched locked for inactivity", "account_id", accountID)
		}
		httputil.JSON(w, http.StatusForbidden, GateResponse{Allow: false, Message: verdict.Message})
		return
	}
	httputil.JSON(w, http.StatusOK, GateResponse{Allow: true})
}

// LoginSuccess records a fully completed authentication.
// POST /v1/auth/login-success
func (h *Handler) LoginSuccess(w http.ResponseWriter, r *http.Request) {
	var req GateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid account_id")
		return
	}

	if err := h.evaluator.RecordLogin(r.Context(), accountID); err != nil {
		h.logger.Error("failed to record login", "account_id", accountID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to record login")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
