package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("12345678")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	// salted: same input, different hash
	hash2, err := HashPassword("12345678")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)

	assert.True(t, CheckPasswordHash("12345678", hash))
	assert.False(t, CheckPasswordHash("87654321", hash))
	assert.False(t, CheckPasswordHash("12345678", "not-a-hash"))
}
