package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gatherbase/server/internal/api/problem"
	"github.com/gatherbase/server/internal/auth"
)

type contextKeyClaims struct{}

// BearerAuth verifies the Authorization header and attaches the token claims
// to the request context. A missing or malformed header is 401; a present but
// invalid, tampered or expired token is 403 — the two stay distinguishable.
func BearerAuth(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://gatherbase.dev/problems/unauthorized", "Unauthorized", problem.ErrUnauthorized, env)
				return
			}

			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://gatherbase.dev/problems/unauthorized", "Missing authorization header", problem.ErrUnauthorized, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				if errors.Is(err, auth.ErrMissingToken) {
					problem.Write(w, r, http.StatusUnauthorized, "https://gatherbase.dev/problems/unauthorized", "Missing token", problem.ErrUnauthorized, env)
					return
				}
				problem.Write(w, r, http.StatusForbidden, "https://gatherbase.dev/problems/forbidden", "Invalid or expired token", problem.ErrForbidden, env)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyClaims{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenClaims returns the verified claims attached by BearerAuth, or nil on
// an unprotected route.
func TokenClaims(r *http.Request) *auth.Claims {
	if r == nil {
		return nil
	}
	if claims, ok := r.Context().Value(contextKeyClaims{}).(*auth.Claims); ok {
		return claims
	}
	return nil
}
