package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var testSecret = []byte("test-admin-secret")

func signAdminToken(t *testing.T, subject string, admin bool, expiresIn time.Duration) string {
	t.Helper()
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
		Admin: admin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAdminAuth(t *testing.T) {
	adminID := uuid.New()

	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
	}{
		{
			name:           "missing header",
			authorization:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			authorization:  "Token abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authorization:  "Bearer not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid admin token",
			authorization:  "Bearer " + signAdminToken(t, adminID.String(), true, time.Hour),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-admin token",
			authorization:  "Bearer " + signAdminToken(t, adminID.String(), false, time.Hour),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "expired token",
			authorization:  "Bearer " + signAdminToken(t, adminID.String(), true, -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "non-uuid subject",
			authorization:  "Bearer " + signAdminToken(t, "root", true, time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uuid.UUID
			handler := AdminAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = GetAdminID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("POST", "/v1/admin/accounts/bulk", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusOK && gotID != adminID {
				t.Errorf("admin ID in context = %v, want %v", gotID, adminID)
			}
		})
	}
}
