package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseJWT(t *testing.T) {
	secret := []byte("test-secret")

	token, err := SignJWT(secret, 42, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := SignJWT([]byte("secret-a"), 1, "bob", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := SignJWT(secret, 1, "bob", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(secret, token)
	assert.Error(t, err)
}
