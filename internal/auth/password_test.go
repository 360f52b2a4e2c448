package auth_test

import (
	"testing"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("Sistemas")
	require.NoError(t, err)
	assert.NotEqual(t, "Sistemas", hash)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := auth.CheckPassword("Sistemas", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.CheckPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := auth.HashPassword("")

	require.ErrorIs(t, err, auth.ErrEmptyPassword)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	ok, err := auth.CheckPassword("Sistemas", "plain-text")

	require.Error(t, err)
	assert.False(t, ok)
}
