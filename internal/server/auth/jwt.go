// Package auth issues and verifies the bearer tokens handed out at login.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the account identity inside issued tokens. The attr-*
// claims hold the credentials exactly as they arrived on the wire, so a
// client can pre-fill a login retry from a cached token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"attr-username"`
	Password string `json:"attr-password"`
}

// GenerateToken signs an HS256 token embedding the wire-encoded
// credentials, valid for validityDuration.
func GenerateToken(wireUsername, wirePassword string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Username: wireUsername,
		Password: wirePassword,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetClaimsFromToken verifies the signature and expiry and returns the
// embedded claims.
func GetClaimsFromToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
