package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ana@mindforge.dev",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	got, ok, err := TokenExpiry(signed)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiry_NoExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, ok, err := TokenExpiry(signed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenExpiry_Opaque(t *testing.T) {
	_, ok, err := TokenExpiry("abc123")
	assert.Error(t, err)
	assert.False(t, ok)

	_, ok, err = TokenExpiry("")
	assert.NoError(t, err)
	assert.False(t, ok)
}
