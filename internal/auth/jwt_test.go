package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndVerifyToken(t *testing.T) {
	cfg := TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"}
	tok, err := CreateToken("user-1", cfg)
	require.NoError(t, err)

	claims, err := VerifyToken(tok, cfg)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	cfg := TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"}
	tok, err := CreateToken("user-1", cfg)
	require.NoError(t, err)

	_, err = VerifyToken(tok, TokenConfig{Secret: "wrong", Expiry: time.Hour, Issuer: "test"})
	assert.Error(t, err)
}

func TestCreateToken_InvalidExpiry(t *testing.T) {
	cfg := TokenConfig{Secret: "secret", Expiry: -time.Second, Issuer: "test"}
	_, err := CreateToken("user-1", cfg)
	assert.Error(t, err)
}

func TestCreateToken_MissingInputs(t *testing.T) {
	_, err := CreateToken("", TokenConfig{Secret: "secret", Expiry: time.Hour})
	assert.Error(t, err)

	_, err = CreateToken("user-1", TokenConfig{Expiry: time.Hour})
	assert.Error(t, err)
}

func TestDefaultTokenConfig(t *testing.T) {
	cfg := DefaultTokenConfig("secret")
	assert.Equal(t, 24*time.Hour, cfg.Expiry)
	assert.Equal(t, "taskboard", cfg.Issuer)
}
