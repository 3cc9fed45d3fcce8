package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lockgate/internal/config"
	"lockgate/internal/http/features/accounts"
	"lockgate/internal/http/features/admin"
	"lockgate/internal/http/features/gate"
	"lockgate/internal/http/features/policy"
	"lockgate/internal/http/features/reactivate"
	"lockgate/internal/http/middleware"
	"lockgate/internal/httputil"
	"lockgate/pkg/lock"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger              *slog.Logger
	Evaluator           *lock.Evaluator
	AdminService        *lock.AdminService
	ReactivationService *lock.ReactivationService
	PolicyService       *lock.PolicyService
	JWTSecret           []byte
	RateLimitConfig     config.RateLimitConfig
	SecurityHeaders     config.SecurityHeadersConfig
	MaxRequestBodySize  int64
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)

	// Authentication-pipeline hooks
	gateHandler := gate.NewHandler(cfg.Logger, cfg.Evaluator)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["gate"])
		r.Post("/v1/auth/gate", gateHandler.Evaluate)
		r.Post("/v1/auth/login-success", gateHandler.LoginSuccess)
	})

	// Read-only lock state for account listings
	accountsHandler := accounts.NewHandler(cfg.Logger, cfg.Evaluator)
	r.Get("/v1/accounts/{accountID}/locked", accountsHandler.Locked)

	// Administrative surface
	adminHandler := admin.NewHandler(cfg.Logger, cfg.AdminService, cfg.ReactivationService)
	policyHandler := policy.NewHandler(cfg.Logger, cfg.PolicyService)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.JWTSecret))
		r.Use(rateLimiters["admin"])
		r.Post("/v1/admin/accounts/bulk", adminHandler.Bulk)
		r.Post("/v1/admin/accounts/{accountID}/reactivation", adminHandler.IssueReactivation)
		r.Get("/v1/admin/policy", policyHandler.Get)
		r.Patch("/v1/admin/policy", policyHandler.Update)
	})

	// Token-authorized reactivation; the signed link stands in for a session
	reactivateHandler := reactivate.NewHandler(cfg.Logger, cfg.ReactivationService)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["reactivate"])
		r.Post("/v1/reactivate", reactivateHandler.Consume)
	})

	return r
}
