package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateAndExtract(t *testing.T) {
	token, exp, err := CreateToken("42", "secret", time.Hour)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	userID, err := ExtractUserIDFromToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, "42", userID)
}

func TestExtract_Rejects(t *testing.T) {
	token, _, err := CreateToken("42", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ExtractUserIDFromToken(token, "other-secret")
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := CreateToken("42", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ExtractUserIDFromToken(expired, "secret")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ExtractUserIDFromToken("not-a-token", "secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}
