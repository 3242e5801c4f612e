package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundtrip(t *testing.T) {
	m := NewJWTManager("secret", 15, 7)

	token, exp, err := m.GenerateAccessToken("u1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	userID, err := m.Verify(token, "access")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestAudienceIsEnforced(t *testing.T) {
	m := NewJWTManager("secret", 15, 7)

	refresh, _, err := m.GenerateRefreshToken("u1")
	require.NoError(t, err)

	_, err = m.Verify(refresh, "access")
	assert.ErrorIs(t, err, ErrInvalidToken)

	userID, err := m.Verify(refresh, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestWrongSecretRejected(t *testing.T) {
	good := NewJWTManager("secret", 15, 7)
	bad := NewJWTManager("other", 15, 7)

	token, _, err := good.GenerateAccessToken("u1")
	require.NoError(t, err)

	_, err = bad.Verify(token, "access")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenReported(t *testing.T) {
	m := NewJWTManager("secret", 0, 7)

	token, _, err := m.generate("u1", "access", -time.Minute)
	require.NoError(t, err)

	_, err = m.Verify(token, "access")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestGarbageToken(t *testing.T) {
	m := NewJWTManager("secret", 15, 7)

	_, err := m.Verify("not.a.jwt", "access")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
