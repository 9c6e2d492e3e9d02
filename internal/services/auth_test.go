package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService() TokenService {
	return TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "iger-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	tokens := testTokenService()

	hash, err := tokens.HashPassword("escuela123")
	require.NoError(t, err)
	assert.NotEqual(t, "escuela123", hash)

	assert.True(t, tokens.VerifyPassword("escuela123", hash))
	assert.False(t, tokens.VerifyPassword("escuela124", hash))
	assert.False(t, tokens.VerifyPassword("escuela123", "not-a-hash"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tokens := testTokenService()

	signed, expiresAt, err := tokens.CreateAccessToken("user-1", "ana@iger.edu", RoleTeacher, "Ana")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, claims, err := tokens.ParseToken(signed)
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "ana@iger.edu", claims["email"])
	assert.Equal(t, RoleTeacher, claims["role"])
	assert.Equal(t, "Ana", claims["name"])
	assert.Equal(t, "access", claims["typ"])
}

func TestRefreshTokenCarriesRefreshType(t *testing.T) {
	tokens := testTokenService()

	signed, err := tokens.CreateRefreshToken("user-2")
	require.NoError(t, err)

	_, claims, err := tokens.ParseToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims["typ"])
	assert.Equal(t, "user-2", claims["sub"])
}

func TestParseTokenRejectsForeignIssuer(t *testing.T) {
	other := testTokenService()
	other.Issuer = "someone-else"

	signed, _, err := other.CreateAccessToken("user-3", "x@iger.edu", RoleStudent, "X")
	require.NoError(t, err)

	_, _, err = testTokenService().ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	other := testTokenService()
	other.Secret = []byte("different-secret")

	signed, _, err := other.CreateAccessToken("user-4", "y@iger.edu", RoleAdmin, "Y")
	require.NoError(t, err)

	_, _, err = testTokenService().ParseToken(signed)
	assert.Error(t, err)
}
