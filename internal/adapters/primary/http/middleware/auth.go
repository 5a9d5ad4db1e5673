package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lorrc/queue-desk-backend/internal/auth"
	"github.com/lorrc/queue-desk-backend/internal/core/domain"
)

type contextKey string

// StaffClaimsKey is the context key for authenticated staff claims
const StaffClaimsKey contextKey = "staff_claims"

// JWTMiddleware validates JWT tokens on protected routes and stores the
// staff claims in the request context.
func JWTMiddleware(tokenManager *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := tokenManager.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), StaffClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose authenticated staff member does not hold
// one of the given roles. Must run after JWTMiddleware.
func RequireRole(roles ...domain.StaffRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetStaffClaims(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Insufficient permissions", http.StatusForbidden)
		})
	}
}

// GetStaffClaims retrieves the authenticated staff claims from the context
func GetStaffClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(StaffClaimsKey).(*auth.Claims)
	return claims, ok
}
