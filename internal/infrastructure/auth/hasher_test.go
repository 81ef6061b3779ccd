package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret-password", hash)

	assert.NoError(t, hasher.Verify("secret-password", hash))
}

func TestBcryptPasswordHasher_VerifyWrongPassword(t *testing.T) {
	hasher := NewBcryptPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret-password")
	require.NoError(t, err)

	err = hasher.Verify("wrong-password", hash)
	assert.Error(t, err)
}

func TestBcryptPasswordHasher_VerifyMalformedHash(t *testing.T) {
	hasher := NewBcryptPasswordHasher(bcrypt.MinCost)

	// A corrupted stored hash must fail verification, not panic or leak a
	// distinct error.
	err := hasher.Verify("secret-password", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.EqualError(t, err, "password verification failed")
}

func TestBcryptPasswordHasher_SameInputDifferentHashes(t *testing.T) {
	hasher := NewBcryptPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("secret-password")
	require.NoError(t, err)
	second, err := hasher.Hash("secret-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewBcryptPasswordHasher_ClampsInvalidCost(t *testing.T) {
	hasher := NewBcryptPasswordHasher(100)

	hash, err := hasher.Hash("secret-password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
