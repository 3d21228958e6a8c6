package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gatherbase/server/internal/api/problem"
	"github.com/gatherbase/server/internal/auth"
	"github.com/gatherbase/server/internal/domain/users"
	"github.com/gatherbase/server/internal/metrics"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type AuthHandler struct {
	Service    *users.Service
	JWTManager *auth.JWTManager
	Env        string
}

func NewAuthHandler(service *users.Service, jwtManager *auth.JWTManager, env string) *AuthHandler {
	return &AuthHandler{Service: service, JWTManager: jwtManager, Env: env}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	PhotoURL string `json:"photoUrl" validate:"omitempty,url"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type sessionResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expires_at"`
	User      userInfo `json:"user"`
}

// Signup handles POST /signup. A created account immediately gets a session
// token so clients do not need a second round-trip through /login.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	user, err := h.Service.Signup(r.Context(), users.SignupParams{
		Username: req.Username,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			problem.Write(w, r, http.StatusConflict, "https://gatherbase.dev/problems/conflict", "Conflict", nil, h.Env, problem.WithDetail("email is already taken"))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, "https://gatherbase.dev/problems/server-error", "Server error", err, h.Env)
		return
	}

	metrics.SignupsTotal.Inc()
	h.writeSession(w, r, http.StatusCreated, user)
}

// Login handles POST /login. Unknown email and wrong password produce the
// same 401 so the response does not reveal which part was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	user, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, "https://gatherbase.dev/problems/unauthorized", "Invalid credentials", nil, h.Env, problem.WithDetail("invalid credentials"))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, "https://gatherbase.dev/problems/server-error", "Server error", err, h.Env)
		return
	}

	h.writeSession(w, r, http.StatusOK, user)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, user *users.User) {
	token, expiresAt, err := h.JWTManager.Generate(user.ID, user.Email, user.Username)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://gatherbase.dev/problems/server-error", "Server error", err, h.Env)
		return
	}

	writeJSON(w, status, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User: userInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			PhotoURL: user.PhotoURL,
		},
	})
}
