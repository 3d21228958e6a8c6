package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteDevIncludesDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/events", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", errors.New("boom"), "development")

	require.Equal(t, "application/problem+json", res.Result().Header.Get("Content-Type"))

	var body ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, "boom", body.Detail)
	require.Equal(t, "/api/events", body.Instance)
	require.Equal(t, http.StatusBadRequest, body.Status)
}

func TestWriteProdSanitizesDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/events", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusInternalServerError, "https://gatherbase.dev/problems/server-error", "Server error", errors.New("pq: password authentication failed"), "production")

	var body ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, http.StatusText(http.StatusInternalServerError), body.Detail)
	require.NotContains(t, body.Detail, "password")
}

func TestWriteExplicitDetailWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://example.com/signup", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusConflict, "https://gatherbase.dev/problems/conflict", "Conflict", nil, "production", WithDetail("email is already taken"))

	var body ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, "email is already taken", body.Detail)
}
