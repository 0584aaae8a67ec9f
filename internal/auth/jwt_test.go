package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpsite/config"
)

func testJWT() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "corpsite",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWT()
	tok, err := GenerateAccessToken(cfg, 7, "a@example.com", "ADMIN")
	require.NoError(t, err)

	c, err := ParseAccessToken(cfg, tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), c.UserID)
	assert.Equal(t, "a@example.com", c.Email)
	assert.Equal(t, "ADMIN", c.Role)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	cfg := testJWT()
	pair, err := GeneratePair(cfg, 3, "e@example.com", "EDITOR")
	require.NoError(t, err)
	assert.Equal(t, int64(60), pair.ExpiresIn)

	_, err = ParseAccessToken(cfg, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ParseRefreshToken(cfg, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	id, err := ParseRefreshToken(cfg, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
}

func TestExpiredAndForeignTokens(t *testing.T) {
	cfg := testJWT()
	cfg.AccessExpiry = -time.Minute
	tok, err := GenerateAccessToken(cfg, 1, "x@example.com", "ADMIN")
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := testJWT()
	other.Issuer = "someone-else"
	tok, err = GenerateAccessToken(other, 1, "x@example.com", "ADMIN")
	require.NoError(t, err)
	_, err = ParseAccessToken(testJWT(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken(cfg, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
