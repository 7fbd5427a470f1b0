package services_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"cloudauth/internal/middleware"
	"cloudauth/internal/models"
	"cloudauth/internal/services"
)

func TestHashAndCheckPassword(t *testing.T) {
	auth := services.NewAuthService([]byte("secret"), time.Minute)

	hash, err := auth.HashPassword("pw123456")
	require.NoError(t, err)
	require.NotEqual(t, "pw123456", hash)

	require.NoError(t, auth.CheckPassword(hash, "pw123456"))
	require.Error(t, auth.CheckPassword(hash, "pw1234567"))
}

func TestGenerateAccessToken(t *testing.T) {
	auth := services.NewAuthService([]byte("secret"), 30*time.Minute)

	token, err := auth.GenerateAccessToken(&models.User{ID: 7, Username: "alice"})
	require.NoError(t, err)

	claims := &middleware.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, int64(7), claims.UserID)

	require.NotNil(t, claims.ExpiresAt)
	ttl := time.Until(claims.ExpiresAt.Time)
	require.Greater(t, ttl, 29*time.Minute)
	require.LessOrEqual(t, ttl, 30*time.Minute)
}

func TestTokenRejectedWithWrongKey(t *testing.T) {
	auth := services.NewAuthService([]byte("secret"), time.Minute)
	token, err := auth.GenerateAccessToken(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(token, &middleware.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	require.Error(t, err)
}
