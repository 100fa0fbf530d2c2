package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptask/internal/middleware"
)

func TestAuthService_PasswordRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour)

	hash, err := svc.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, svc.CheckPassword(hash, "hunter22"))
	assert.Error(t, svc.CheckPassword(hash, "wrong-password"))
}

func TestAuthService_IssueToken(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour)

	tokenStr, err := svc.IssueToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "user-123", claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestAuthService_TokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour)

	tokenStr, err := svc.IssueToken("user-123")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenStr, &middleware.Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}
