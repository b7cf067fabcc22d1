package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{SigningKey: "k1", TTL: time.Hour})

	token, err := j.GenerateToken("0b5e6a6e-6a1f-4d8e-9a4f-1c2d3e4f5a6b")
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0b5e6a6e-6a1f-4d8e-9a4f-1c2d3e4f5a6b", claims.SessionID())
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestValidateRejects(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{SigningKey: "k1", TTL: time.Hour})
	token, err := j.GenerateToken("sid")
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		other := NewJWTUtil(&JWTConfig{SigningKey: "k2", TTL: time.Hour})
		_, err := other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewJWTUtil(&JWTConfig{SigningKey: "k1", TTL: time.Minute})
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		expired, err := old.GenerateToken("sid")
		require.NoError(t, err)
		_, err = j.ValidateToken(expired)
		assert.Error(t, err)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "sid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		s, err := foreign.SignedString([]byte("k1"))
		require.NoError(t, err)
		_, err = j.ValidateToken(s)
		assert.ErrorContains(t, err, "unexpected issuer")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := j.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestMissingConfig(t *testing.T) {
	_, err := NewJWTUtil(nil).GenerateToken("sid")
	assert.Error(t, err)
	_, err = NewJWTUtil(&JWTConfig{SigningKey: "k"}).GenerateToken("")
	assert.Error(t, err)
}
