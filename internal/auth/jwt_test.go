package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager(expiry time.Duration) *JWTManager {
	return NewJWTManager("test-secret", expiry, "gatherbase-test")
}

func TestGenerateAndValidateRoundtrip(t *testing.T) {
	m := newTestManager(time.Hour)

	token, expiresAt, err := m.Generate("user-123", "ada@example.com", "ada")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.Equal(t, "ada@example.com", claims.Email)
	require.Equal(t, "ada", claims.Username)
}

func TestGenerateRejectsEmptyIdentity(t *testing.T) {
	m := newTestManager(time.Hour)

	_, _, err := m.Generate("", "ada@example.com", "ada")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = m.Generate("user-123", "", "ada")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissingToken(t *testing.T) {
	m := newTestManager(time.Hour)

	_, err := m.Validate("")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = m.Validate("   ")
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestValidateTamperedToken(t *testing.T) {
	m := newTestManager(time.Hour)

	token, _, err := m.Generate("user-123", "ada@example.com", "ada")
	require.NoError(t, err)

	_, err = m.Validate(token + "x")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateWrongSecret(t *testing.T) {
	token, _, err := newTestManager(time.Hour).Generate("user-123", "ada@example.com", "ada")
	require.NoError(t, err)

	other := NewJWTManager("other-secret", time.Hour, "gatherbase-test")
	_, err = other.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, _, err := m.Generate("user-123", "ada@example.com", "ada")
	require.NoError(t, err)

	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromHeader(t *testing.T) {
	token, err := TokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	token, err = TokenFromHeader("bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err = TokenFromHeader(header)
		require.ErrorIs(t, err, ErrMissingToken, "header %q", header)
	}
}
