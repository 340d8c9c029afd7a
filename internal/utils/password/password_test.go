package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hash)

	require.True(t, CheckPasswordHash("correct horse", hash))
	require.False(t, CheckPasswordHash("wrong horse", hash))
}
