package policy

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"lockgate/pkg/domain"
	"lockgate/pkg/lock"
	"lockgate/pkg/repository"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db, err := repository.Open(repository.Config{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, lock.NewPolicyService(repository.NewSettingsRepository(db)))
}

func patchPolicy(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/v1/admin/policy", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.Update(rec, req)
	return rec
}

func TestGet_Defaults(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/policy", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp PolicyResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.InactivityDays != domain.DefaultInactivityDays {
		t.Errorf("inactivity_days = %d, want %d", resp.InactivityDays, domain.DefaultInactivityDays)
	}
}

func TestUpdate_AcceptsNumberAndString(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"json number", `{"inactivity_days": 45}`, 45},
		{"json string", `{"inactivity_days": "30"}`, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t)
			rec := patchPolicy(t, handler, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			var resp PolicyResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp.InactivityDays != tt.want {
				t.Errorf("inactivity_days = %d, want %d", resp.InactivityDays, tt.want)
			}
		})
	}
}

func TestUpdate_PartialMerge(t *testing.T) {
	handler := newTestHandler(t)

	if rec := patchPolicy(t, handler, `{"inactivity_days": 45}`); rec.Code != http.StatusOK {
		t.Fatalf("set days: status %d", rec.Code)
	}

	rec := patchPolicy(t, handler, `{"locked_message": "Contact support."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set message: status %d", rec.Code)
	}
	var resp PolicyResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.InactivityDays != 45 {
		t.Errorf("message-only update changed threshold: %d", resp.InactivityDays)
	}
	if resp.LockedMessage != "Contact support." {
		t.Errorf("locked_message = %q", resp.LockedMessage)
	}
}

func TestUpdate_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{invalid}`},
		{"zero days", `{"inactivity_days": 0}`},
		{"negative days", `{"inactivity_days": -3}`},
		{"non-numeric string", `{"inactivity_days": "soon"}`},
		{"wrong type", `{"inactivity_days": [90]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t)
			rec := patchPolicy(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}
