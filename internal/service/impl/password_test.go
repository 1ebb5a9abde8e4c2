package impl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	encoded, err := hashPassword("s3cret")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")
	assert.NotContains(t, encoded, "s3cret")

	ok, err := verifyPassword("s3cret", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("different salts", func(t *testing.T) {
		other, err := hashPassword("s3cret")
		require.NoError(t, err)
		assert.NotEqual(t, encoded, other)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, encoded := range []string{"", "plain", "$bcrypt$whatever$x$y$z"} {
			_, err := verifyPassword("s3cret", encoded)
			assert.ErrorIs(t, err, errMalformedHash)
		}
	})
}
