package jwtutil

import (
	"testing"

	"catalog-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	util := NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, err := util.GenerateToken("u-1", "Ada", "ada@example.com", "editor")
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "editor", claims.Role)
}

func TestValidateRejectsOtherKey(t *testing.T) {
	issuer := NewJWTUtil(&config.JWTConfig{SigningKey: "one", ExpirationHours: 1})
	checker := NewJWTUtil(&config.JWTConfig{SigningKey: "two", ExpirationHours: 1})

	token, err := issuer.GenerateToken("u-1", "Ada", "ada@example.com", "")
	require.NoError(t, err)

	_, err = checker.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidateRejectsExpired(t *testing.T) {
	util := NewJWTUtil(&config.JWTConfig{SigningKey: "key", ExpirationHours: -1})

	token, err := util.GenerateToken("u-1", "", "a@b.c", "")
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestDisabledWithoutKey(t *testing.T) {
	util := NewJWTUtil(&config.JWTConfig{})
	assert.False(t, util.Enabled())

	_, err := util.ValidateToken("anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
