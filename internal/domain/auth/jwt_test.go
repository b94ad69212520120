package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))

	token, expiresAt, err := svc.GenerateToken("billing", []string{ScopeGenerate})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	client, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "billing", client.Subject)
	assert.Equal(t, []string{ScopeGenerate}, client.Scopes)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))

	other := NewJWTService(DefaultJWTConfig("other-secret"))
	forged, _, err := other.GenerateToken("billing", nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(forged)
	assert.Error(t, err)

	cfg := DefaultJWTConfig("secret")
	cfg.TokenTTL = -time.Minute
	expired, _, err := NewJWTService(cfg).GenerateToken("billing", nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)

	cfg = DefaultJWTConfig("secret")
	cfg.Issuer = "someone-else"
	foreign, _, err := NewJWTService(cfg).GenerateToken("billing", nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateTokenRequiresSubject(t *testing.T) {
	_, _, err := NewJWTService(DefaultJWTConfig("secret")).GenerateToken("", nil)
	assert.Error(t, err)
}
