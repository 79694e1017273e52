package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash_DifferentSaltPerCall(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash1, err := h.Hash("securePassword123")
	require.NoError(t, err)
	hash2, err := h.Hash("securePassword123")
	require.NoError(t, err)

	assert.NotEqual(t, "securePassword123", hash1)
	assert.NotEqual(t, hash1, hash2, "same password should produce different hashes due to salt")
}

func TestHash_UsesConfiguredCost(t *testing.T) {
	h := NewPasswordHasher(bcrypt.DefaultCost)

	hash, err := h.Hash("p1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("securePassword123")
	require.NoError(t, err)

	ok, err := h.Verify("securePassword123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrongPassword456", hash)
	require.NoError(t, err, "a wrong password is not an internal error")
	assert.False(t, ok)

	ok, err = h.Verify("", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_MalformedHashIsAnError(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	ok, err := h.Verify("password", "not-a-valid-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}
