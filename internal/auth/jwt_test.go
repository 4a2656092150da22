package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phoneadmin_backend/internal/config"
)

func setJWTConfig(t *testing.T, secret string, ttlMinutes int) {
	t.Helper()
	prev := config.AppConfig
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.TTL = ttlMinutes
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestGenerateAndParseToken(t *testing.T) {
	setJWTConfig(t, "test-secret", 60)

	token, err := GenerateToken("user-1", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParseTokenWrongSecret(t *testing.T) {
	setJWTConfig(t, "secret-a", 60)
	token, err := GenerateToken("user-1", RoleUser)
	require.NoError(t, err)

	setJWTConfig(t, "secret-b", 60)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	setJWTConfig(t, "test-secret", -1)
	token, err := GenerateToken("user-1", RoleUser)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenGarbage(t *testing.T) {
	setJWTConfig(t, "test-secret", 60)
	_, err := ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
