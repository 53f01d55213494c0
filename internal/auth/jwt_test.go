package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkup/linkup-server/internal/auth"
	"github.com/linkup/linkup-server/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)

	raw, err := tokens.Issue("user-1")
	require.NoError(t, err)

	id, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("user-1"), id)
}

func TestTokenWrongSecret(t *testing.T) {
	raw, err := auth.NewTokens("secret-a", time.Hour).Issue("user-1")
	require.NoError(t, err)

	_, err = auth.NewTokens("secret-b", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tokens := auth.NewTokens("secret", -time.Minute)

	raw, err := tokens.Issue("user-1")
	require.NoError(t, err)

	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)

	_, err := tokens.Parse("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter42")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter42", hash)

	assert.True(t, auth.CheckPassword(hash, "hunter42"))
	assert.False(t, auth.CheckPassword(hash, "hunter43"))
}
