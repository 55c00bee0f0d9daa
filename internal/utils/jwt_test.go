package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenExpiryMatchesIssuedExp(t *testing.T) {
	access, err := NewAccessToken("secret", 7, "GUEST", 60)
	require.NoError(t, err)
	require.NotEmpty(t, access.Token)

	exp, ok := TokenExpiry(access.Token)
	require.True(t, ok)
	assert.WithinDuration(t, access.Exp, exp, time.Second)
}

func TestTokenExpiryRejectsGarbage(t *testing.T) {
	_, ok := TokenExpiry("not-a-jwt")
	assert.False(t, ok)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
}
