package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewJWTService("test-secret", time.Hour, 24*time.Hour, false)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "admin@example.com", "admin-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims := decoded.PrivateClaims()
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "admin@example.com", claims["email"])
	assert.Equal(t, "admin-1", claims["admin_id"])
	assert.Equal(t, RoleAdmin, claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestValidateRefreshToken(t *testing.T) {
	svc := newTestService()

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, _, err := svc.GenerateAccessToken("user-1", "a@b.co", "admin-1")
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err, "access token must not be accepted as refresh token")
}

func TestRefreshTokensAreUnique(t *testing.T) {
	svc := newTestService()

	a, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	b, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSSEToken(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = svc.ValidateSSEToken("garbage")
	assert.Error(t, err)

	other := NewJWTService("other-secret", time.Hour, time.Hour, false)
	_, err = other.ValidateSSEToken(token)
	assert.Error(t, err, "token signed with a different key")
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, -time.Hour, false)

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(refresh)
	assert.Error(t, err)
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, time.Hour, true)

	cookie := svc.RefreshTokenCookie("abc", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, RefreshTokenCookieName, cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	cleared := svc.ClearRefreshTokenCookie()
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}
