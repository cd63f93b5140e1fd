package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/password"
)

func Test_Matches_Plaintext_IsExactAndCaseSensitive(t *testing.T) {
	assert.True(t, password.Matches("Secret", "Secret"))
	assert.False(t, password.Matches("Secret", "secret"))
	assert.False(t, password.Matches("Secret", "Secret "))
}

func Test_Matches_Bcrypt_WhenStoredValueIsAHash(t *testing.T) {
	// arrange
	hasher := password.BcryptHasher{Cost: bcrypt.MinCost}

	// act
	stored, err := hasher.Hash("Secret")

	// assert
	require.NoError(t, err)
	assert.NotEqual(t, "Secret", stored)
	assert.True(t, password.Matches(stored, "Secret"))
	assert.False(t, password.Matches(stored, "secret"))
	assert.False(t, password.Matches(stored, stored), "a hash must not match itself as plaintext")
}

func Test_ForScheme(t *testing.T) {
	plaintext, err := password.ForScheme(password.SchemePlaintext)
	require.NoError(t, err)
	assert.IsType(t, password.PlaintextHasher{}, plaintext)

	hashing, err := password.ForScheme(password.SchemeBcrypt)
	require.NoError(t, err)
	assert.IsType(t, password.BcryptHasher{}, hashing)

	_, err = password.ForScheme("rot13")
	assert.ErrorIs(t, err, password.ErrUnknownScheme)
}
