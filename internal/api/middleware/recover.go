package middleware

import (
	"net/http"

	"github.com/gatherbase/server/internal/api/problem"
	"github.com/rs/zerolog"
)

// Recover converts handler panics into a generic 500 problem instead of a
// dropped connection.
func Recover(logger zerolog.Logger, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Str("method", r.Method).
						Msg("handler panic")
					problem.Write(w, r, http.StatusInternalServerError, "https://gatherbase.dev/problems/server-error", "Server error", nil, env)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
