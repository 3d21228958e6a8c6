package api

import (
	"net/http"

	"github.com/gatherbase/server/internal/api/handlers"
	"github.com/gatherbase/server/internal/api/middleware"
	"github.com/gatherbase/server/internal/auth"
	"github.com/gatherbase/server/internal/config"
	"github.com/gatherbase/server/internal/domain/events"
	"github.com/gatherbase/server/internal/domain/users"
	"github.com/gatherbase/server/internal/metrics"
	"github.com/gatherbase/server/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewRouter wires repositories, services and handlers over the given pool.
// Reads on the events collection are public; every mutation and the profile
// route sit behind bearer-token verification.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	userService := users.NewService(repo.Users())
	eventService := events.NewService(repo.Events())

	authHandler := handlers.NewAuthHandler(userService, jwtManager, cfg.Environment)
	usersHandler := handlers.NewUsersHandler(userService, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventService, cfg.Environment)

	requireAuth := middleware.BearerAuth(jwtManager, cfg.Environment)

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", route("/", handlers.Root()))
	mux.Handle("GET /healthz", route("/healthz", handlers.Healthz()))
	mux.Handle("GET /readyz", route("/readyz", handlers.Readyz(pool, cfg.Environment)))
	mux.Handle("GET /metrics", metrics.Handler())

	mux.Handle("POST /signup", route("/signup", http.HandlerFunc(authHandler.Signup)))
	mux.Handle("POST /login", route("/login", http.HandlerFunc(authHandler.Login)))

	mux.Handle("GET /api/user/me", route("/api/user/me", requireAuth(http.HandlerFunc(usersHandler.Me))))

	mux.Handle("GET /api/events", route("/api/events", http.HandlerFunc(eventsHandler.List)))
	mux.Handle("POST /api/events", route("/api/events", requireAuth(http.HandlerFunc(eventsHandler.Create))))
	mux.Handle("GET /api/events/{email}", route("/api/events/{email}", http.HandlerFunc(eventsHandler.ListByOwner)))
	mux.Handle("PATCH /api/events/join/{id}", route("/api/events/join/{id}", requireAuth(http.HandlerFunc(eventsHandler.Join))))
	mux.Handle("PUT /api/events/{id}", route("/api/events/{id}", requireAuth(http.HandlerFunc(eventsHandler.Update))))
	mux.Handle("DELETE /api/events/{id}", route("/api/events/{id}", requireAuth(http.HandlerFunc(eventsHandler.Delete))))

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.Recover(logger, cfg.Environment)(handler)
	return handler, nil
}

// route tags a handler with its pattern for the metrics labels.
func route(pattern string, next http.Handler) http.Handler {
	return middleware.Metrics(pattern, next)
}
