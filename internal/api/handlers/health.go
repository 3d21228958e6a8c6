package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gatherbase/server/internal/api/problem"
	"github.com/jackc/pgx/v5/pgxpool"
)

type healthResponse struct {
	Status string `json:"status"`
}

// Root serves GET / — a fixed human-readable liveness string, not JSON.
func Root() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("gatherbase event service is running\n"))
	})
}

// Healthz is process liveness only; it says nothing about the store.
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	})
}

// Readyz pings the database. Until the store answers, readiness is 503 so
// load balancers hold traffic instead of surfacing per-request 500s.
func Readyz(pool *pgxpool.Pool, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pool == nil {
			problem.Write(w, r, http.StatusServiceUnavailable, "https://gatherbase.dev/problems/store-unavailable", "Store unavailable", nil, env)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			problem.Write(w, r, http.StatusServiceUnavailable, "https://gatherbase.dev/problems/store-unavailable", "Store unavailable", err, env)
			return
		}

		writeJSON(w, http.StatusOK, healthResponse{Status: "ready"})
	})
}
