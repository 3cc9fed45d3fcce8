package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lockgate/internal/http/middleware"
	"lockgate/pkg/lock"
	"lockgate/pkg/repository"
)

func newTestHandler(t *testing.T) (*Handler, *repository.LockRecordsRepository) {
	t.Helper()
	db, err := repository.Open(repository.Config{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	records := repository.NewLockRecordsRepository(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	adminSvc := lock.NewAdminService(logger, records)
	reactivation := lock.NewReactivationService(lock.ReactivationConfig{
		JWTSecret: []byte("admin-test-secret"),
	}, repository.NewGrantsRepository(db), records)
	return NewHandler(logger, adminSvc, reactivation), records
}

func postBulk(t *testing.T, handler *Handler, body string, actingID *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/accounts/bulk", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if actingID != nil {
		ctx := context.WithValue(req.Context(), middleware.AdminIDKey, *actingID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	handler.Bulk(rec, req)
	return rec
}

func TestBulk_RequiresAdminContext(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postBulk(t, handler, `{"action":"lock","account_ids":[]}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestBulk_Validation(t *testing.T) {
	handler, _ := newTestHandler(t)
	acting := uuid.New()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{invalid}`},
		{"unknown action", `{"action":"purge","account_ids":["` + uuid.New().String() + `"]}`},
		{"no accounts", `{"action":"lock","account_ids":[]}`},
		{"non-uuid account", `{"action":"lock","account_ids":["42"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postBulk(t, handler, tt.body, &acting)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestBulk_LockSkipsActingAdmin(t *testing.T) {
	handler, records := newTestHandler(t)
	acting := uuid.New()
	other := uuid.New()

	body, _ := json.Marshal(BulkRequest{
		Action:     "lock",
		AccountIDs: []string{acting.String(), other.String()},
	})
	rec := postBulk(t, handler, string(body), &acting)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp BulkResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Updated != 1 {
		t.Errorf("updated = %d, want 1", resp.Updated)
	}
	if locked, _ := records.IsLocked(context.Background(), acting); locked {
		t.Error("acting admin must not be locked")
	}
	if locked, _ := records.IsLocked(context.Background(), other); !locked {
		t.Error("other account should be locked")
	}
}

func TestIssueReactivation(t *testing.T) {
	handler, _ := newTestHandler(t)
	acting := uuid.New()
	accountID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/accounts/"+accountID.String()+"/reactivation", nil)
	req = withURLParam(req, "accountID", accountID.String())
	ctx := context.WithValue(req.Context(), middleware.AdminIDKey, acting)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.IssueReactivation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp ReactivationResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Token == "" {
		t.Error("response should carry a token")
	}
	if resp.ExpiresAt.IsZero() {
		t.Error("response should carry an expiry")
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
