package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateToken("u1", "ibad")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ibad", claims.Username)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateToken("u1", "ibad")
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)

	SetJWTSecret("other-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
	SetJWTSecret("test-secret")
}
