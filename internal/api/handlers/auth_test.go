package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gatherbase/server/internal/auth"
	"github.com/gatherbase/server/internal/domain/users"
	"github.com/stretchr/testify/require"
)

func newAuthHandler(repo users.Repository) *AuthHandler {
	manager := auth.NewJWTManager("handler-test-secret", time.Hour, "gatherbase-test")
	return NewAuthHandler(users.NewService(repo), manager, "test")
}

func TestSignupReturnsSession(t *testing.T) {
	repo := newMemUsersRepo()
	handler := newAuthHandler(repo)

	body := `{"username":"ada","email":"Ada@Example.com","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Signup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var session sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	require.Equal(t, "ada", session.User.Username)
	require.Equal(t, "ada@example.com", session.User.Email)
	require.NotEmpty(t, session.User.ID)

	expiresAt, err := time.Parse(time.RFC3339, session.ExpiresAt)
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	// The issued token must verify against the same manager.
	claims, err := handler.JWTManager.Validate(session.Token)
	require.NoError(t, err)
	require.Equal(t, session.User.ID, claims.Subject)
	require.Equal(t, "ada@example.com", claims.Email)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	repo := newMemUsersRepo()
	repo.seed("ada", "ada@example.com", "correct horse")
	handler := newAuthHandler(repo)

	body := `{"username":"other","email":"ada@example.com","password":"battery staple"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Signup(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "email is already taken")
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"username":`},
		{"missing email", `{"username":"ada","password":"correct horse"}`},
		{"bad email", `{"username":"ada","email":"not-an-email","password":"correct horse"}`},
		{"short password", `{"username":"ada","email":"ada@example.com","password":"short"}`},
		{"short username", `{"username":"a","email":"ada@example.com","password":"correct horse"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemUsersRepo()
			handler := newAuthHandler(repo)

			req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.Signup(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Empty(t, repo.users, "no account should be created")
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newMemUsersRepo()
	seeded := repo.seed("ada", "ada@example.com", "correct horse")
	handler := newAuthHandler(repo)

	body := `{"email":"ADA@example.com","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var session sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.Equal(t, seeded.ID, session.User.ID)
	require.NotEmpty(t, session.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newMemUsersRepo()
	repo.seed("ada", "ada@example.com", "correct horse")
	handler := newAuthHandler(repo)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"ada@example.com","password":"wrong password"}`},
		{"unknown email", `{"email":"nobody@example.com","password":"correct horse"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.NotContains(t, rec.Body.String(), "password", "response must not reveal which field failed")
		})
	}
}

func TestLoginValidation(t *testing.T) {
	handler := newAuthHandler(newMemUsersRepo())

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{"email":""}`)))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
