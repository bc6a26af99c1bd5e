package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("tr0ub4dor&3")
	require.NoError(t, err)
	assert.NotEqual(t, "tr0ub4dor&3", hash)

	assert.True(t, CheckPassword(hash, "tr0ub4dor&3"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "tr0ub4dor&3"))
}
