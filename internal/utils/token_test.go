package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken(testSecret, 42, "collector", "Riley", 7)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims := VerifySessionToken(testSecret, tok.Token)
	require.NotNil(t, claims)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "collector", claims.Role)
	assert.Equal(t, "Riley", claims.Name)
	assert.WithinDuration(t, tok.Exp, claims.Expiry, time.Second)
}

func TestVerifySessionTokenFailsClosed(t *testing.T) {
	tok, err := NewSessionToken(testSecret, 7, "citizen", "Sam", 7)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		assert.Nil(t, VerifySessionToken("another-secret", tok.Token))
	})
	t.Run("garbage token", func(t *testing.T) {
		assert.Nil(t, VerifySessionToken(testSecret, "not.a.jwt"))
	})
	t.Run("expired token", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  7,
			"role": "citizen",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})
		raw, err := expired.SignedString([]byte(testSecret))
		require.NoError(t, err)
		assert.Nil(t, VerifySessionToken(testSecret, raw))
	})
	t.Run("unsigned algorithm", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub":  7,
			"role": "citizen",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		assert.Nil(t, VerifySessionToken(testSecret, raw))
	})
	t.Run("missing role claim", func(t *testing.T) {
		noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": 7,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		raw, err := noRole.SignedString([]byte(testSecret))
		require.NoError(t, err)
		assert.Nil(t, VerifySessionToken(testSecret, raw))
	})
}
