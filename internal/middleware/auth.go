package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	TenantKey contextKey = "tenant"
	APIKeyKey contextKey = "api_key"
)

// APIKeyAuth validates API key from Authorization header. validKeys maps
// tenant id to its key; an empty map disables auth entirely.
func APIKeyAuth(validKeys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for health checks and when no keys are configured
			if r.URL.Path == "/health" || r.URL.Path == "/healthz" || len(validKeys) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			// Constant-time comparison to prevent timing attacks
			valid := false
			var tenant string
			for t, key := range validKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					valid = true
					tenant = t
					break
				}
			}

			if !valid {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			ctx = context.WithValue(ctx, APIKeyKey, apiKey)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantFromContext extracts tenant from context
func GetTenantFromContext(ctx context.Context) string {
	if tenant, ok := ctx.Value(TenantKey).(string); ok {
		return tenant
	}
	return ""
}
