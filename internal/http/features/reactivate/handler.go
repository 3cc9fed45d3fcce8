package reactivate

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lockgate/internal/httputil"
	"lockgate/pkg/domain"
	"lockgate/pkg/lock"
)

// Handler consumes reactivation tokens. The signed token is the authorization;
// no live session is required here.
type Handler struct {
	logger       *slog.Logger
	reactivation *lock.ReactivationService
}

// NewHandler creates a new reactivate handler.
func NewHandler(logger *slog.Logger, reactivation *lock.ReactivationService) *Handler {
	return &Handler{logger: logger, reactivation: reactivation}
}

// ConsumeRequest carries the signed reactivation token.
type ConsumeRequest struct {
	Token string `json:"token"`
}

// ConsumeResponse reports the unlocked account.
type ConsumeResponse struct {
	Reactivated bool   `json:"reactivated"`
	AccountID   string `json:"account_id"`
}

// Consume verifies a reactivation token and unlocks the bound account.
// Each token works exactly once.
// POST /v1/reactivate
func (h *Handler) Consume(w http.ResponseWriter, r *http.Request) {
	var req ConsumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		httputil.Error(w, http.StatusBadRequest, "token is required")
		return
	}

	accountID, err := h.reactivation.Consume(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGrantConsumed):
			httputil.Error(w, http.StatusBadRequest, "reactivation token already used")
		case errors.Is(err, domain.ErrTokenExpired):
			httputil.Error(w, http.StatusBadRequest, "reactivation token expired")
		case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrGrantNotFound):
			httputil.Error(w, http.StatusBadRequest, "invalid reactivation token")
		default:
			h.logger.Error("reactivation failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "reactivation failed")
		}
		return
	}

	h.logger.Info("account reactivated", "account_id", accountID)
	httputil.JSON(w, http.StatusOK, ConsumeResponse{Reactivated: true, AccountID: accountID.String()})
}
