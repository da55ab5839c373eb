package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := GetHash("hotline123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "hotline123", hash)

	assert.NoError(t, CompareHash(hash, "hotline123"))
	assert.Error(t, CompareHash(hash, "wrongpass"))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := GetHash("hotline123")
	require.NoError(t, err)
	second, err := GetHash("hotline123")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
