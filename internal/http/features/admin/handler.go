package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lockgate/internal/http/middleware"
	"lockgate/internal/httputil"
	"lockgate/pkg/domain"
	"lockgate/pkg/lock"
)

// Handler handles the administrative surface: bulk lock/unlock and
// reactivation-token issuance.
type Handler struct {
	logger       *slog.Logger
	adminService *lock.AdminService
	reactivation *lock.ReactivationService
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, adminService *lock.AdminService, reactivation *lock.ReactivationService) *Handler {
	return &Handler{logger: logger, adminService: adminService, reactivation: reactivation}
}

// BulkRequest names the action and the accounts it applies to. The acting
// administrator comes from the bearer token, not the body.
type BulkRequest struct {
	Action     string   `json:"action"`
	AccountIDs []string `json:"account_ids"`
}

// BulkResponse reports how many records actually changed.
type BulkResponse struct {
	Updated int `json:"updated"`
}

// Bulk applies a lock or unlock action to a set of accounts.
// POST /v1/admin/accounts/bulk
func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	actingID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action := domain.BulkAction(strings.ToLower(strings.TrimSpace(req.Action)))
	if !action.Valid() {
		httputil.Error(w, http.StatusBadRequest, "action must be lock or unlock")
		return
	}
	if len(req.AccountIDs) == 0 {
		httputil.Error(w, http.StatusBadRequest, "account_ids is required")
		return
	}

	accountIDs := make([]uuid.UUID, 0, len(req.AccountIDs))
	for _, raw := range req.AccountIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid account ID: "+raw)
			return
		}
		accountIDs = append(accountIDs, id)
	}

	updated, err := h.adminService.ApplyBulk(r.Context(), action, accountIDs, actingID)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, "bulk action failed")
		return
	}

	h.logger.Info("bulk action applied",
		"action", action,
		"requested", len(accountIDs),
		"updated", updated,
		"acting_id", actingID,
	)
	httputil.JSON(w, http.StatusOK, BulkResponse{Updated: updated})
}

// ReactivationResponse carries a freshly issued reactivation token. Delivering
// the link to whoever needs it is the caller's responsibility.
type ReactivationResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueReactivation issues a single-use reactivation token for one account.
// POST /v1/admin/accounts/{accountID}/reactivation
func (h *Handler) IssueReactivation(w http.ResponseWriter, r *http.Request) {
	actingID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid account ID")
		return
	}

	token, grant, err := h.reactivation.Issue(r.Context(), accountID, actingID)
	if err != nil {
		h.logger.Error("failed to issue reactivation token", "account_id", accountID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to issue reactivation token")
		return
	}

	h.logger.Info("reactivation token issued", "account_id", accountID, "acting_id", actingID)
	httputil.JSON(w, http.StatusOK, ReactivationResponse{Token: token, ExpiresAt: grant.ExpiresAt})
}
