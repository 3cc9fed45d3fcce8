package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"lockgate/internal/httputil"
)

type contextKey string

const (
	// AdminIDKey is the context key for the acting administrator's account ID.
	AdminIDKey contextKey = "admin_id"
)

// AdminClaims are the claims required on administrative bearer tokens.
type AdminClaims struct {
	jwt.RegisteredClaims
	Admin bool `json:"admin"`
}

// AdminAuth creates middleware that validates administrative JWT bearer
// tokens. The token subject is the acting administrator's account ID; bulk
// self-lock exclusion depends on it.
func AdminAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenString = parts[1]
				}
			}
			if tokenString == "" {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			claims := &AdminClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if !claims.Admin {
				httputil.Error(w, http.StatusForbidden, "administrative privileges required")
				return
			}

			adminID, err := uuid.Parse(claims.Subject)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminID extracts the acting administrator's ID from the request context.
func GetAdminID(ctx context.Context) (uuid.UUID, bool) {
	adminID, ok := ctx.Value(AdminIDKey).(uuid.UUID)
	return adminID, ok
}
