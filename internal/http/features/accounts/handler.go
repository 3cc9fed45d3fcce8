package accounts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lockgate/internal/httputil"
	"lockgate/pkg/lock"
)

// Handler serves the read-only lock-state view consumed by account listings.
type Handler struct {
	logger    *slog.Logger
	evaluator *lock.Evaluator
}

// NewHandler creates a new accounts handler.
func NewHandler(logger *slog.Logger, evaluator *lock.Evaluator) *Handler {
	return &Handler{logger: logger, evaluator: evaluator}
}

// LockedResponse reports an account's stored lock flag.
type LockedResponse struct {
	AccountID string `json:"account_id"`
	Locked    bool   `json:"locked"`
}

// Locked returns whether an account is locked. No side effects.
// GET /v1/accounts/{accountID}/locked
func (h *Handler) Locked(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid account ID")
		return
	}

	locked, err := h.evaluator.IsLocked(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to read lock state", "account_id", accountID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to read lock state")
		return
	}
	httputil.JSON(w, http.StatusOK, LockedResponse{AccountID: accountID.String(), Locked: locked})
}
