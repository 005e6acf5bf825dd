// Package models defines the account records exchanged with the backend.
package models

import (
	"encoding/base64"
	"fmt"
)

// User is the full identity record. Username and Password must be run
// through Obfuscate before the record leaves the device; this is a
// reversible base64 transform required by the backend wire contract,
// not a cryptographic protection.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// HashedUser carries already-obfuscated credentials and is the login
// request body.
type HashedUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the payload inside the login/signUp response envelope.
type TokenResponse struct {
	Token string `json:"token"`
}

// Obfuscate applies the reversible wire encoding to a credential value.
func Obfuscate(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Deobfuscate reverses Obfuscate. The round trip is exact.
func Deobfuscate(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("credential decode: %w", err)
	}
	return string(b), nil
}

// Obfuscated returns a copy of the user with wire-encoded credentials.
// Name and email are transmitted as-is.
func (u User) Obfuscated() User {
	u.Username = Obfuscate(u.Username)
	u.Password = Obfuscate(u.Password)
	return u
}

// Hashed builds the login record from plain credentials.
func Hashed(username, password string) HashedUser {
	return HashedUser{
		Username: Obfuscate(username),
		Password: Obfuscate(password),
	}
}
