// Package identity extracts the account identity embedded in a cached
// bearer token.
//
// The token payload is base64-decoded without any signature check, so the
// result is an identity HINT only: it pre-fills a login retry that the
// server still fully authenticates. It must never be used as an
// authentication decision by itself.
package identity

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/weesnerdevelopment/authkit/internal/models"
)

var (
	// ErrMalformedToken means the token does not have a decodable
	// JWT-style payload segment.
	ErrMalformedToken = errors.New("malformed token")

	// ErrNoIdentity means the payload decoded fine but carries no
	// identity claims.
	ErrNoIdentity = errors.New("token carries no identity claims")
)

// Claim names the backend embeds in issued tokens. The values are the
// wire-encoded credentials, exactly as submitted at login.
const (
	ClaimUsername = "attr-username"
	ClaimPassword = "attr-password"
)

// Hint holds wire-encoded credentials recovered from a token.
type Hint struct {
	Username string
	Password string
}

// Hashed converts the hint into a login request body. No re-encoding
// happens; the claims already hold wire-encoded values.
func (h Hint) Hashed() models.HashedUser {
	return models.HashedUser{Username: h.Username, Password: h.Password}
}

// FromToken decodes the payload segment of a JWT-shaped token and pulls
// out the identity claims.
func FromToken(token string) (Hint, error) {
	if strings.TrimSpace(token) == "" {
		return Hint{}, fmt.Errorf("%w: blank token", ErrMalformedToken)
	}

	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return Hint{}, fmt.Errorf("%w: expected header.payload.signature", ErrMalformedToken)
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return Hint{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Hint{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	username, uok := claims[ClaimUsername].(string)
	password, pok := claims[ClaimPassword].(string)
	if !uok || !pok || username == "" || password == "" {
		return Hint{}, ErrNoIdentity
	}

	return Hint{Username: username, Password: password}, nil
}

// decodeSegment handles both unpadded base64url (standard JWT) and the
// padded variants some issuers produce.
func decodeSegment(seg string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	if b, err := base64.URLEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(seg)
}
