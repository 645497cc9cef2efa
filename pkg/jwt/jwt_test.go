package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	tm := NewTokenManagerWithoutRedis("test-secret")

	access, refresh, err := tm.GenerateTokens(42, "ana@x.com", time.Hour, 7*24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := tm.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, "access", claims.TokenType)

	claims, err = tm.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestTokenTypeMismatch(t *testing.T) {
	tm := NewTokenManagerWithoutRedis("test-secret")
	access, refresh, err := tm.GenerateTokens(1, "ana@x.com", time.Hour, time.Hour)
	require.NoError(t, err)

	// A refresh token must not pass as an access token, nor the reverse.
	_, err = tm.ValidateAccessToken(refresh)
	assert.Error(t, err)
	_, err = tm.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	tm := NewTokenManagerWithoutRedis("test-secret")
	access, _, err := tm.GenerateTokens(1, "ana@x.com", -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestWrongSecret(t *testing.T) {
	tm := NewTokenManagerWithoutRedis("test-secret")
	other := NewTokenManagerWithoutRedis("other-secret")

	access, _, err := tm.GenerateTokens(1, "ana@x.com", time.Hour, time.Hour)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestGarbageToken(t *testing.T) {
	tm := NewTokenManagerWithoutRedis("test-secret")
	_, err := tm.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestRevokeWithoutRedisIsNoop(t *testing.T) {
	tm := NewTokenManagerWithoutRedis("test-secret")
	_, refresh, err := tm.GenerateTokens(1, "ana@x.com", time.Hour, time.Hour)
	require.NoError(t, err)

	require.NoError(t, tm.RevokeRefreshToken(refresh))
	// Without a blacklist the token stays valid; the stored-token comparison
	// in the auth service is what actually invalidates it.
	_, err = tm.ValidateRefreshToken(refresh)
	assert.NoError(t, err)
}
