package handler

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := generateJWT("alice", secret)
	require.NoError(t, err)

	userID, err := validateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := generateJWT("alice", []byte("secret-a"))
	require.NoError(t, err)

	_, err = validateToken(token, []byte("secret-b"))
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.MapClaims{
		"user_id": "alice",
		"exp":     time.Now().Add(-time.Hour).Unix(),
		"iss":     "sparmatch-relay",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = validateToken(token, secret)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := validateToken("not-a-token", []byte("test-secret"))
	assert.Error(t, err)
}
