package handlers

import (
	"errors"
	"net/http"

	"github.com/gatherbase/server/internal/api/middleware"
	"github.com/gatherbase/server/internal/api/problem"
	"github.com/gatherbase/server/internal/domain/users"
)

type UsersHandler struct {
	Service *users.Service
	Env     string
}

func NewUsersHandler(service *users.Service, env string) *UsersHandler {
	return &UsersHandler{Service: service, Env: env}
}

// Me handles GET /api/user/me. The route sits behind BearerAuth, so claims
// are always present here; the account is re-read so a stale token for a
// removed account cannot fabricate a profile.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.TokenClaims(r)
	if claims == nil {
		problem.Write(w, r, http.StatusUnauthorized, "https://gatherbase.dev/problems/unauthorized", "Unauthorized", problem.ErrUnauthorized, h.Env)
		return
	}

	user, err := h.Service.Profile(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			problem.Write(w, r, http.StatusUnauthorized, "https://gatherbase.dev/problems/unauthorized", "Unknown account", problem.ErrUnauthorized, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, "https://gatherbase.dev/problems/server-error", "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, userInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		PhotoURL: user.PhotoURL,
	})
}
