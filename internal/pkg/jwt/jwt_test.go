package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "alice@example.com", "TENANT", testSecret, 15)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "TENANT", claims.Role)
	assert.Equal(t, "dwellhub", claims.Issuer)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "alice@example.com", "TENANT", testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "some-other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(42, "alice@example.com", "TENANT", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func TestRefreshToken_Expired(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateRefreshToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken_NotValidAsAccessToken(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testSecret, 7)
	require.NoError(t, err)

	// A refresh token parses as access claims but carries no identity.
	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Role)
}

func TestGetExpiryTime(t *testing.T) {
	expiry := GetExpiryTime(7)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiry, time.Minute)
}
