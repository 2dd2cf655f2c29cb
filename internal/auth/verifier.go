// Package auth verifies bearer tokens for the HTTP layer. Token issuance
// lives outside this service; we only validate and extract identity.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims the service consumes. Subject carries the
// user's public id; identity details are always re-read from the store.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates a JWT token string and returns the parsed claims.
type Verifier interface {
	VerifyToken(tokenString string) (*Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
