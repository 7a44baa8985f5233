package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiry(t *testing.T) {
	cases := map[string]time.Duration{
		"30s": 30 * time.Second,
		"15m": 15 * time.Minute,
		"1h":  time.Hour,
		"7d":  7 * 24 * time.Hour,
		"2w":  14 * 24 * time.Hour,
	}
	for input, expected := range cases {
		d, err := ParseExpiry(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, d, input)
	}

	_, err := ParseExpiry("")
	assert.Error(t, err)
	_, err = ParseExpiry("xd")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", "a@b.com", "USER", "secret", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", "a@b.com", "USER", "secret", time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("user-1", "a@b.com", "USER", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.Error(t, err)
}

func TestGenerateTokenPairUsesDistinctSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")

	pair, err := GenerateTokenPair("user-1", "a@b.com", "USER")
	require.NoError(t, err)

	_, err = ParseAccessToken(pair.AccessToken)
	assert.NoError(t, err)
	_, err = ParseAccessToken(pair.RefreshToken)
	assert.Error(t, err)
	_, err = ParseRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}
