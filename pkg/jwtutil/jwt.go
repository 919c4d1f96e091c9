package jwtutil

import (
	"errors"
	"time"

	"catalog-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotConfigured is returned when no signing key has been set
var ErrNotConfigured = errors.New("JWT signing key not configured")

// UserClaims represents the session token claims. Name and Email double as
// the default author of records created with the token.
type UserClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *config.JWTConfig
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *config.JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
	}
}

// Enabled reports whether session tokens can be issued and checked
func (j *JWTUtil) Enabled() bool {
	return j != nil && j.config != nil && j.config.SigningKey != ""
}

// GenerateToken creates a signed HS256 token for the user
func (j *JWTUtil) GenerateToken(userID, name, email, role string) (string, error) {
	if !j.Enabled() {
		return "", ErrNotConfigured
	}

	now := time.Now()
	claims := UserClaims{
		UserID: userID,
		Name:   name,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	if !j.Enabled() {
		return nil, ErrNotConfigured
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(j.config.SigningKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
